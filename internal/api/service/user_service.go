package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack-backend/internal/domain/blog"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/shared"
	"github.com/shopstack-backend/internal/domain/user"
	"github.com/shopstack-backend/internal/platform/auth"
	"github.com/shopstack-backend/internal/platform/messaging/producers"
	"github.com/shopstack-backend/internal/platform/otp"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login responses don't reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken indicates the email already has an account
	ErrEmailTaken = errors.New("email is already registered")
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userRepo       user.Repository
	productRepo    catalog.ProductRepository
	subscriberRepo blog.SubscriberRepository
	otpStore       *otp.Store
	tokens         auth.TokenIssuer
	producer       producers.MessagePublisher
	otpTTL         time.Duration
	logger         *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(logger *slog.Logger, userRepo user.Repository, productRepo catalog.ProductRepository, subscriberRepo blog.SubscriberRepository, otpStore *otp.Store, tokens auth.TokenIssuer, producer producers.MessagePublisher, otpTTL time.Duration) UserService {
	return &UserServiceImpl{
		userRepo:       userRepo,
		productRepo:    productRepo,
		subscriberRepo: subscriberRepo,
		otpStore:       otpStore,
		tokens:         tokens,
		producer:       producer,
		otpTTL:         otpTTL,
		logger:         logger,
	}
}

// RequestRegistrationOTP issues a signup code unless the email is taken
func (s *UserServiceImpl) RequestRegistrationOTP(ctx context.Context, email, correlationID string) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	return s.issueOTP(ctx, email, correlationID)
}

// Register consumes the OTP, hashes the password, stores the user, and
// auto-subscribes the email to the newsletter. Returns the user and a bearer
// token.
func (s *UserServiceImpl) Register(ctx context.Context, params RegisterParams) (*user.User, string, error) {
	if err := s.otpStore.Verify(ctx, params.Email, params.OTPCode); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u, err := user.NewUser(params.Name, params.Email, string(hash), params.Phone)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		var dup user.ErrDuplicateEmail
		if errors.As(err, &dup) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	// Subscription is best-effort: the account exists regardless
	if sub, err := blog.NewSubscriber(u.Email); err == nil {
		if err := s.subscriberRepo.Create(ctx, sub); err != nil {
			var already blog.ErrAlreadySubscribed
			if !errors.As(err, &already) {
				s.logger.Error("Failed to auto-subscribe new user", "email", u.Email, "error", err)
			}
		}
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered", "user_id", u.ID.String())
	return u, token, nil
}

// Login verifies credentials and returns the user plus a bearer token
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// GetProfile retrieves a user by id
func (s *UserServiceImpl) GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies profile edits
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, u *user.User) (*user.User, error) {
	u.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns every registered user
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.userRepo.List(ctx)
}

// RequestPasswordResetOTP issues a reset code for a registered email.
// Unknown emails succeed silently so the endpoint doesn't reveal which
// addresses have accounts.
func (s *UserServiceImpl) RequestPasswordResetOTP(ctx context.Context, email, correlationID string) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing == nil {
		s.logger.Info("Password reset requested for unknown email")
		return nil
	}

	return s.issueOTP(ctx, email, correlationID)
}

// ResetPassword consumes the OTP and replaces the password hash
func (s *UserServiceImpl) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.otpStore.Verify(ctx, email, code); err != nil {
		return err
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, u.ID, string(hash))
}

// ChangePassword verifies the old password before replacing the hash
func (s *UserServiceImpl) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, id, string(hash))
}

// AddWishlistItem links a product to the user's wishlist after verifying the
// product exists.
func (s *UserServiceImpl) AddWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return catalog.ErrProductNotFound{}
	}
	if _, err := s.productRepo.GetByID(ctx, oid); err != nil {
		return err
	}

	return s.userRepo.AddWishlistItem(ctx, userID, productID)
}

// RemoveWishlistItem unlinks a product from the user's wishlist
func (s *UserServiceImpl) RemoveWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error {
	return s.userRepo.RemoveWishlistItem(ctx, userID, productID)
}

// GetWishlist resolves the user's wishlisted product ids to full products.
// Products deleted since wishlisting are silently skipped.
func (s *UserServiceImpl) GetWishlist(ctx context.Context, userID uuid.UUID) ([]*catalog.Product, error) {
	ids, err := s.userRepo.GetWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := []*catalog.Product{}
	for _, hex := range ids {
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		p, err := s.productRepo.GetByID(ctx, oid)
		if err != nil {
			var notFound catalog.ErrProductNotFound
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		products = append(products, p)
	}

	return products, nil
}

// SendContactMessage forwards a contact-form submission as a mail event to
// the shop's own address (the event recipient resolution happens in the
// worker via the configured from-address).
func (s *UserServiceImpl) SendContactMessage(ctx context.Context, name, email, subject, message, correlationID string) error {
	event, err := shared.NewMailEvent(shared.MailKindContact, []string{email}, map[string]string{
		"name":    name,
		"email":   email,
		"subject": subject,
		"message": message,
	}, correlationID)
	if err != nil {
		return err
	}

	return s.producer.Publish(ctx, event.EventID.String(), event)
}

// issueOTP generates a code and enqueues the OTP email
func (s *UserServiceImpl) issueOTP(ctx context.Context, email, correlationID string) error {
	code, err := s.otpStore.Issue(ctx, email)
	if err != nil {
		return err
	}

	event, err := shared.NewMailEvent(shared.MailKindOTP, []string{email}, map[string]string{
		"code": code,
		"ttl":  s.otpTTL.String(),
	}, correlationID)
	if err != nil {
		return err
	}

	return s.producer.Publish(ctx, event.EventID.String(), event)
}
