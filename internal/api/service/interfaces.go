package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/domain/accounting"
	"github.com/shopstack-backend/internal/domain/blog"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/content"
	"github.com/shopstack-backend/internal/domain/inventory"
	"github.com/shopstack-backend/internal/domain/order"
	"github.com/shopstack-backend/internal/domain/review"
	"github.com/shopstack-backend/internal/domain/user"
)

// TransactionsPageSize is the fixed page size of the paginated transaction
// listing.
const TransactionsPageSize = 5

// ProductsPageSize is the fixed page size of the paginated product listing
const ProductsPageSize = 8

// ExpandedTransaction is a ledger transaction with its debit and credit
// references resolved to full account documents.
type ExpandedTransaction struct {
	*accounting.Transaction
	Debit  []*accounting.Account
	Credit []*accounting.Account
}

// TransactionPage is one page of the transaction listing
type TransactionPage struct {
	Transactions []*ExpandedTransaction
	Page         int
	Total        int64
}

// Ledger is an account's transaction history over a date range
type Ledger struct {
	Account      *accounting.Account
	Start        time.Time
	End          time.Time
	Transactions []*ExpandedTransaction
}

// AccountingService defines the interface for double-entry ledger operations
type AccountingService interface {
	// CreateAccount registers a chart-of-accounts entry. Duplicate names are
	// permitted.
	CreateAccount(ctx context.Context, name string, equation accounting.Equation, defaultSide accounting.Side) (*accounting.Account, error)

	// ListAccounts returns every account sorted by name ascending
	ListAccounts(ctx context.Context) ([]*accounting.Account, error)

	// RecordTransaction validates account membership against the registry and
	// persists the transaction. Every transaction, manual or sale-triggered,
	// enters the ledger through this method.
	// Returns ErrUnknownAccountIDs when any referenced id is unknown.
	RecordTransaction(ctx context.Context, debitIDs, creditIDs []primitive.ObjectID, amount float64, date time.Time, remarks string, orderID *primitive.ObjectID) (*accounting.Transaction, error)

	// GetTransactionsPage returns the 1-indexed page of transactions sorted by
	// creation time descending, with account references expanded.
	GetTransactionsPage(ctx context.Context, page int) (*TransactionPage, error)

	// GetAccountLedger returns the account's transactions within the resolved
	// month range, sorted by date ascending, with account references expanded.
	// Returns ErrAccountNotFound for unknown account ids.
	GetAccountLedger(ctx context.Context, accountID primitive.ObjectID, startYear, startMonth, endYear, endMonth int) (*Ledger, error)

	// RecordSale records the ledger transaction of a completed sale against
	// the configured sales accounts.
	RecordSale(ctx context.Context, orderID *primitive.ObjectID, amount float64, remarks string) (*accounting.Transaction, error)

	// ReverseSale removes the ledger transaction linked to a cancelled order
	ReverseSale(ctx context.Context, orderID primitive.ObjectID) error
}

// CatalogService defines the interface for category and product operations
type CatalogService interface {
	// CreateCategory returns the existing category when the name is already
	// taken, making creation idempotent on name.
	CreateCategory(ctx context.Context, name string) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*catalog.Category, error)
	ListCategories(ctx context.Context) ([]*catalog.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error

	// CreateProduct hosts the photo payload and persists the product
	CreateProduct(ctx context.Context, params CreateProductParams) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, params UpdateProductParams) (*catalog.Product, error)

	// DeleteProduct removes the product and its hosted photos
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error

	GetProduct(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	ListProducts(ctx context.Context) ([]*catalog.Product, error)

	// GetProductsPage returns the 1-indexed product page plus the total count
	GetProductsPage(ctx context.Context, page int) ([]*catalog.Product, int64, error)

	SearchProducts(ctx context.Context, keyword string) ([]*catalog.Product, error)

	// RelatedProducts returns up to three products sharing the category
	RelatedProducts(ctx context.Context, productID primitive.ObjectID) ([]*catalog.Product, error)

	GetProductsByCategorySlug(ctx context.Context, slug string) ([]*catalog.Product, error)
	FilterProducts(ctx context.Context, categories []primitive.ObjectID, price *catalog.PriceRange) ([]*catalog.Product, error)
}

// CreateProductParams carries the fields of a new product. Photo is the raw
// image payload handed to the imaging store.
type CreateProductParams struct {
	Name          string
	Description   string
	SellingPrice  float64
	OriginalPrice float64
	CategoryID    primitive.ObjectID
	Quantity      int
	Colors        []string
	Photo         string
}

// UpdateProductParams carries a product edit. Photo is optional; when empty
// the existing photos are kept.
type UpdateProductParams struct {
	Name          string
	Description   string
	SellingPrice  float64
	OriginalPrice float64
	CategoryID    primitive.ObjectID
	Quantity      int
	Colors        []string
	Photo         string
}

// CheckoutParams carries a checkout request through the saga
type CheckoutParams struct {
	BuyerID       uuid.UUID
	BuyerName     string
	BuyerEmail    string
	Items         []order.Item
	PaymentMethod string // "cod" or "card"
	PaymentNonce  string // Gateway nonce, required for card payments
	CorrelationID string
}

// OrderService defines the interface for order and checkout operations
type OrderService interface {
	// Checkout runs the order placement saga: create the order, decrement
	// stock, record the sales ledger transaction, settle payment for card
	// orders, and enqueue the confirmation email.
	Checkout(ctx context.Context, params CheckoutParams) (*order.Order, error)

	GetOrder(ctx context.Context, id primitive.ObjectID) (*order.Order, error)
	GetBuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]*order.Order, error)
	ListOrders(ctx context.Context) ([]*order.Order, error)

	// UpdateStatus moves the order through fulfilment. Delivered enqueues a
	// status email; Cancelled reverses the linked ledger transaction.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status order.Status, correlationID string) (*order.Order, error)
}

// CustomSaleParams describes an over-the-counter sale recorded against an
// inventory batch.
type CustomSaleParams struct {
	ItemID    primitive.ObjectID
	ProductID primitive.ObjectID
	Quantity  int
	SaleRate  float64
	Remarks   string
}

// InventoryService defines the interface for stock operations
type InventoryService interface {
	CreateItem(ctx context.Context, item *inventory.Item) (*inventory.Item, error)
	UpdateItem(ctx context.Context, item *inventory.Item) (*inventory.Item, error)
	DeleteItem(ctx context.Context, id primitive.ObjectID) error
	ListItems(ctx context.Context) ([]*inventory.Item, error)

	// RecordCustomSale validates the batch and product, records the sales
	// ledger transaction, and decrements both quantities (saga with
	// compensations).
	RecordCustomSale(ctx context.Context, params CustomSaleParams) error
}

// BlogService defines the interface for blog and newsletter operations
type BlogService interface {
	// CreatePost hosts the cover photo, persists the post, and fans the
	// newsletter out to subscribers in batches.
	CreatePost(ctx context.Context, title, content, photo, correlationID string) (*blog.Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, title, content, photo string) (*blog.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	GetPostBySlug(ctx context.Context, slug string) (*blog.Post, error)
	ListPosts(ctx context.Context) ([]*blog.Post, error)
	LatestPosts(ctx context.Context) ([]*blog.Post, error)

	AddComment(ctx context.Context, postID primitive.ObjectID, userID uuid.UUID, text string) (*blog.Post, error)
	ToggleLike(ctx context.Context, postID primitive.ObjectID, userID uuid.UUID) (int, error)

	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
}

// ReviewService defines the interface for product review operations
type ReviewService interface {
	// CreateReview records a review after verifying the buyer purchased the
	// product in the given order and has not reviewed it yet.
	CreateReview(ctx context.Context, userID uuid.UUID, productID, orderID primitive.ObjectID, stars int, text string) (*review.Review, error)

	GetProductReviews(ctx context.Context, productID primitive.ObjectID) ([]*review.Review, error)
}

// ContentService defines the interface for home page content operations
type ContentService interface {
	ListSlides(ctx context.Context) ([]*content.Slide, error)

	// AddSlide rejects new slides once the carousel cap is reached
	AddSlide(ctx context.Context, title, subtitle, description, image string) (*content.Slide, error)

	DeleteSlide(ctx context.Context, id primitive.ObjectID) error
}

// RegisterParams carries a registration request
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Phone    string
	OTPCode  string
}

// UserService defines the interface for identity, auth, and wishlist operations
type UserService interface {
	// RequestRegistrationOTP issues a signup code unless the email is taken
	RequestRegistrationOTP(ctx context.Context, email, correlationID string) error

	// Register consumes the OTP, hashes the password, stores the user, and
	// auto-subscribes the email to the newsletter.
	Register(ctx context.Context, params RegisterParams) (*user.User, string, error)

	// Login verifies credentials and returns the user plus a bearer token.
	// Returns ErrInvalidCredentials on unknown email or wrong password.
	Login(ctx context.Context, email, password string) (*user.User, string, error)

	GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateProfile(ctx context.Context, u *user.User) (*user.User, error)
	ListUsers(ctx context.Context) ([]*user.User, error)

	// RequestPasswordResetOTP issues a reset code for a registered email
	RequestPasswordResetOTP(ctx context.Context, email, correlationID string) error

	// ResetPassword consumes the OTP and replaces the password hash
	ResetPassword(ctx context.Context, email, code, newPassword string) error

	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error

	AddWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error
	RemoveWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]*catalog.Product, error)

	// SendContactMessage forwards a contact-form submission as a mail event
	SendContactMessage(ctx context.Context, name, email, subject, message, correlationID string) error
}
