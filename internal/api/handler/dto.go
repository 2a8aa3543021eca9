package handler

// CreateAccountRequest represents a request to add a chart-of-accounts entry
type CreateAccountRequest struct {
	Name        string `json:"name" binding:"required"`
	Equation    string `json:"accounting_equation" binding:"required"`
	DefaultSide string `json:"default_side" binding:"required"`
}

// CreateTransactionRequest represents a request to record a ledger transaction
type CreateTransactionRequest struct {
	DebitAccounts  []string `json:"debit_accounts" binding:"required,min=1"`
	CreditAccounts []string `json:"credit_accounts" binding:"required,min=1"`
	Amount         float64  `json:"amount" binding:"required,gt=0"`
	Date           string   `json:"date" binding:"required"`
	Remarks        string   `json:"remarks"`
}

// LedgerQuery represents the optional month-range parameters of a ledger
// request. Omitted or partial parameters fall back to the current month.
type LedgerQuery struct {
	StartYear  int `form:"startYear"`
	StartMonth int `form:"startMonth"`
	EndYear    int `form:"endYear"`
	EndMonth   int `form:"endMonth"`
}

// CreateCategoryRequest represents a request to create a product category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateProductRequest represents a request to create a product.
// Photo is a data URI or base64 payload handed to the imaging store.
type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	SellingPrice  float64  `json:"selling_price" binding:"required,gt=0"`
	OriginalPrice float64  `json:"original_price"`
	CategoryID    string   `json:"category_id" binding:"required"`
	Quantity      int      `json:"quantity" binding:"min=0"`
	Colors        []string `json:"colors"`
	Photo         string   `json:"photo" binding:"required"`
}

// UpdateProductRequest represents a product edit. Photo is optional; when
// empty the existing photos are kept.
type UpdateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	SellingPrice  float64  `json:"selling_price" binding:"required,gt=0"`
	OriginalPrice float64  `json:"original_price"`
	CategoryID    string   `json:"category_id" binding:"required"`
	Quantity      int      `json:"quantity" binding:"min=0"`
	Colors        []string `json:"colors"`
	Photo         string   `json:"photo"`
}

// FilterProductsRequest represents a catalog filter query
type FilterProductsRequest struct {
	Categories []string `json:"categories"`
	MinPrice   float64  `json:"min_price"`
	MaxPrice   float64  `json:"max_price"`
}

// CheckoutItemRequest is one cart line in a checkout request
type CheckoutItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest represents an order placement request
type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method" binding:"required,oneof=cod card"`
	PaymentNonce  string                `json:"payment_nonce"`
}

// UpdateOrderStatusRequest represents an order status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateInventoryItemRequest represents a request to record a stock batch
type CreateInventoryItemRequest struct {
	Date             string  `json:"date" binding:"required"`
	ProductName      string  `json:"product_name" binding:"required"`
	Supplier         string  `json:"supplier"`
	Barcode          string  `json:"barcode"`
	InitialQty       int     `json:"initial_qty" binding:"required,gt=0"`
	CurrentQty       int     `json:"current_qty" binding:"min=0"`
	PurchaseRate     float64 `json:"purchase_rate" binding:"required,gt=0"`
	CPP              float64 `json:"cpp" binding:"required,gt=0"`
	CFP              float64 `json:"cfp" binding:"required,gt=0"`
	SaleRate         float64 `json:"sale_rate" binding:"required,gt=0"`
	ProfitPerProduct float64 `json:"profit_per_product" binding:"required,gt=0"`
}

// CustomSaleRequest represents an over-the-counter sale against a stock batch
type CustomSaleRequest struct {
	ItemID    string  `json:"item_id" binding:"required"`
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	SaleRate  float64 `json:"sale_rate"`
	Remarks   string  `json:"remarks"`
}

// CreatePostRequest represents a request to publish a blog post
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Photo   string `json:"photo" binding:"required"`
}

// UpdatePostRequest represents a blog post edit
type UpdatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Photo   string `json:"photo"`
}

// AddCommentRequest represents a comment on a blog post
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// SubscribeRequest represents a newsletter subscription
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateReviewRequest represents a product review submission
type CreateReviewRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	Stars     int    `json:"stars" binding:"required,min=1,max=5"`
	Text      string `json:"text"`
}

// AddSlideRequest represents a home carousel slide
type AddSlideRequest struct {
	Title       string `json:"title" binding:"required"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Image       string `json:"image" binding:"required"`
}

// RequestOTPRequest asks for a one-time code to be emailed
type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RegisterRequest represents a signup completing an emailed OTP
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
	OTPCode  string `json:"otp_code" binding:"required,len=6"`
}

// LoginRequest represents a credential login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a profile edit
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address"`
	District string `json:"district"`
	Country  string `json:"country"`
}

// ResetPasswordRequest completes a password reset with an emailed OTP
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTPCode     string `json:"otp_code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// WishlistRequest adds a product to the caller's wishlist
type WishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// ContactRequest represents a contact-form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// TokenResponse carries a bearer token alongside the authenticated user
type TokenResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}
