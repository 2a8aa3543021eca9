package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack-backend/internal/domain/blog"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/user"
	"github.com/shopstack-backend/internal/platform/otp"
)

type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) Create(ctx context.Context, s *blog.Subscriber) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriberRepository) GetByEmail(ctx context.Context, email string) (*blog.Subscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockSubscriberRepository) List(ctx context.Context) ([]*blog.Subscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blog.Subscriber), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID uuid.UUID, role int) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

type userServiceMocks struct {
	users       *MockUserRepository
	products    *MockProductRepository
	subscribers *MockSubscriberRepository
	tokens      *MockTokenIssuer
	producer    *MockMessagePublisher
	otpStore    *otp.Store
	redis       *miniredis.Miniredis
}

func newTestUserService(t *testing.T) (UserService, *userServiceMocks) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	m := &userServiceMocks{
		users:       new(MockUserRepository),
		products:    new(MockProductRepository),
		subscribers: new(MockSubscriberRepository),
		tokens:      new(MockTokenIssuer),
		producer:    new(MockMessagePublisher),
		otpStore:    otp.NewStore(slog.Default(), client, 5*time.Minute),
		redis:       mr,
	}
	svc := NewUserService(slog.Default(), m.users, m.products, m.subscribers, m.otpStore, m.tokens, m.producer, 5*time.Minute)
	return svc, m
}

func TestUserServiceImpl_RequestRegistrationOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("IssuesCodeAndEnqueuesMail", func(t *testing.T) {
		svc, m := newTestUserService(t)

		m.users.On("GetByEmail", ctx, "new@example.com").Return(nil, nil).Once()
		m.producer.On("Publish", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

		err := svc.RequestRegistrationOTP(ctx, "new@example.com", "corr")

		require.NoError(t, err)
		stored, redisErr := m.redis.Get("otp:new@example.com")
		require.NoError(t, redisErr)
		assert.Len(t, stored, 6)
		m.producer.AssertExpectations(t)
	})

	t.Run("TakenEmail", func(t *testing.T) {
		svc, m := newTestUserService(t)

		existing := &user.User{ID: uuid.New(), Email: "taken@example.com"}
		m.users.On("GetByEmail", ctx, "taken@example.com").Return(existing, nil).Once()

		err := svc.RequestRegistrationOTP(ctx, "taken@example.com", "corr")

		assert.ErrorIs(t, err, ErrEmailTaken)
		m.producer.AssertNotCalled(t, "Publish")
	})
}

func TestUserServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestUserService(t)

		code, err := m.otpStore.Issue(ctx, "new@example.com")
		require.NoError(t, err)

		m.users.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil).Once()
		m.subscribers.On("Create", ctx, mock.AnythingOfType("*blog.Subscriber")).Return(nil).Once()
		m.tokens.On("Issue", mock.AnythingOfType("uuid.UUID"), user.RoleCustomer).Return("token-abc", nil).Once()

		u, token, err := svc.Register(ctx, RegisterParams{
			Name:     "New User",
			Email:    "new@example.com",
			Password: "s3cret!",
			Phone:    "0123456789",
			OTPCode:  code,
		})

		require.NoError(t, err)
		assert.Equal(t, "token-abc", token)
		assert.Equal(t, user.RoleCustomer, u.Role)
		// Stored hash verifies against the plaintext
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!")))
		// The code was consumed
		assert.False(t, m.redis.Exists("otp:new@example.com"))
		m.users.AssertExpectations(t)
		m.tokens.AssertExpectations(t)
	})

	t.Run("WrongCode", func(t *testing.T) {
		svc, m := newTestUserService(t)

		_, err := m.otpStore.Issue(ctx, "new@example.com")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, RegisterParams{
			Name:     "New User",
			Email:    "new@example.com",
			Password: "s3cret!",
			Phone:    "0123456789",
			OTPCode:  "000000",
		})

		assert.ErrorIs(t, err, otp.ErrCodeMismatch)
		m.users.AssertNotCalled(t, "Create")
	})

	t.Run("NoCodeIssued", func(t *testing.T) {
		svc, m := newTestUserService(t)

		_, _, err := svc.Register(ctx, RegisterParams{
			Name:     "New User",
			Email:    "new@example.com",
			Password: "s3cret!",
			Phone:    "0123456789",
			OTPCode:  "123456",
		})

		assert.ErrorIs(t, err, otp.ErrCodeExpired)
		m.users.AssertNotCalled(t, "Create")
	})

	t.Run("DuplicateEmailRace", func(t *testing.T) {
		svc, m := newTestUserService(t)

		code, err := m.otpStore.Issue(ctx, "raced@example.com")
		require.NoError(t, err)

		m.users.On("Create", ctx, mock.AnythingOfType("*user.User")).
			Return(user.ErrDuplicateEmail{Email: "raced@example.com"}).Once()

		_, _, err = svc.Register(ctx, RegisterParams{
			Name:     "Raced",
			Email:    "raced@example.com",
			Password: "s3cret!",
			Phone:    "0123456789",
			OTPCode:  code,
		})

		assert.ErrorIs(t, err, ErrEmailTaken)
		m.tokens.AssertNotCalled(t, "Issue")
	})

	t.Run("AlreadySubscribedIsTolerated", func(t *testing.T) {
		svc, m := newTestUserService(t)

		code, err := m.otpStore.Issue(ctx, "sub@example.com")
		require.NoError(t, err)

		m.users.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil).Once()
		m.subscribers.On("Create", ctx, mock.AnythingOfType("*blog.Subscriber")).
			Return(blog.ErrAlreadySubscribed{Email: "sub@example.com"}).Once()
		m.tokens.On("Issue", mock.AnythingOfType("uuid.UUID"), user.RoleCustomer).Return("token-abc", nil).Once()

		_, token, err := svc.Register(ctx, RegisterParams{
			Name:     "Sub",
			Email:    "sub@example.com",
			Password: "s3cret!",
			Phone:    "0123456789",
			OTPCode:  code,
		})

		require.NoError(t, err)
		assert.Equal(t, "token-abc", token)
	})
}

func TestUserServiceImpl_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.DefaultCost)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestUserService(t)

		u := &user.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: string(hash), Role: user.RoleCustomer}
		m.users.On("GetByEmail", ctx, "user@example.com").Return(u, nil).Once()
		m.tokens.On("Issue", u.ID, user.RoleCustomer).Return("token-abc", nil).Once()

		got, token, err := svc.Login(ctx, "user@example.com", "s3cret!")

		require.NoError(t, err)
		assert.Equal(t, u, got)
		assert.Equal(t, "token-abc", token)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		svc, m := newTestUserService(t)

		m.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, m := newTestUserService(t)

		u := &user.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: string(hash)}
		m.users.On("GetByEmail", ctx, "user@example.com").Return(u, nil).Once()

		_, _, err := svc.Login(ctx, "user@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		m.tokens.AssertNotCalled(t, "Issue")
	})
}

func TestUserServiceImpl_RequestPasswordResetOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownEmailSucceedsSilently", func(t *testing.T) {
		svc, m := newTestUserService(t)

		m.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		err := svc.RequestPasswordResetOTP(ctx, "ghost@example.com", "corr")

		require.NoError(t, err)
		assert.False(t, m.redis.Exists("otp:ghost@example.com"))
		m.producer.AssertNotCalled(t, "Publish")
	})

	t.Run("RegisteredEmailGetsCode", func(t *testing.T) {
		svc, m := newTestUserService(t)

		u := &user.User{ID: uuid.New(), Email: "user@example.com"}
		m.users.On("GetByEmail", ctx, "user@example.com").Return(u, nil).Once()
		m.producer.On("Publish", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

		err := svc.RequestPasswordResetOTP(ctx, "user@example.com", "corr")

		require.NoError(t, err)
		assert.True(t, m.redis.Exists("otp:user@example.com"))
	})
}

func TestUserServiceImpl_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestUserService(t)

		code, err := m.otpStore.Issue(ctx, "user@example.com")
		require.NoError(t, err)

		u := &user.User{ID: uuid.New(), Email: "user@example.com"}
		m.users.On("GetByEmail", ctx, "user@example.com").Return(u, nil).Once()
		m.users.On("UpdatePassword", ctx, u.ID, mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpass!")) == nil
		})).Return(nil).Once()

		err = svc.ResetPassword(ctx, "user@example.com", code, "newpass!")

		require.NoError(t, err)
		m.users.AssertExpectations(t)
	})

	t.Run("ExpiredCode", func(t *testing.T) {
		svc, m := newTestUserService(t)

		_, err := m.otpStore.Issue(ctx, "user@example.com")
		require.NoError(t, err)
		m.redis.FastForward(10 * time.Minute)

		err = svc.ResetPassword(ctx, "user@example.com", "123456", "newpass!")

		assert.ErrorIs(t, err, otp.ErrCodeExpired)
		m.users.AssertNotCalled(t, "UpdatePassword")
	})
}

func TestUserServiceImpl_ChangePassword(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	t.Run("WrongOldPassword", func(t *testing.T) {
		svc, m := newTestUserService(t)

		id := uuid.New()
		u := &user.User{ID: id, PasswordHash: string(hash)}
		m.users.On("GetByID", ctx, id).Return(u, nil).Once()

		err := svc.ChangePassword(ctx, id, "wrong", "newpass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		m.users.AssertNotCalled(t, "UpdatePassword")
	})
}

func TestUserServiceImpl_Wishlist(t *testing.T) {
	ctx := context.Background()

	t.Run("AddVerifiesProductExists", func(t *testing.T) {
		svc, m := newTestUserService(t)

		userID := uuid.New()
		productID := primitive.NewObjectID()
		m.products.On("GetByID", ctx, productID).Return(&catalog.Product{ID: productID}, nil).Once()
		m.users.On("AddWishlistItem", ctx, userID, productID.Hex()).Return(nil).Once()

		err := svc.AddWishlistItem(ctx, userID, productID.Hex())

		require.NoError(t, err)
		m.users.AssertExpectations(t)
	})

	t.Run("AddRejectsMalformedID", func(t *testing.T) {
		svc, m := newTestUserService(t)

		err := svc.AddWishlistItem(ctx, uuid.New(), "not-an-objectid")

		assert.ErrorIs(t, err, catalog.ErrProductNotFound{})
		m.users.AssertNotCalled(t, "AddWishlistItem")
	})

	t.Run("GetSkipsDeletedProducts", func(t *testing.T) {
		svc, m := newTestUserService(t)

		userID := uuid.New()
		live := primitive.NewObjectID()
		deleted := primitive.NewObjectID()

		m.users.On("GetWishlist", ctx, userID).Return([]string{live.Hex(), deleted.Hex()}, nil).Once()
		m.products.On("GetByID", ctx, live).Return(&catalog.Product{ID: live}, nil).Once()
		m.products.On("GetByID", ctx, deleted).Return(nil, catalog.ErrProductNotFound{ProductID: deleted}).Once()

		products, err := svc.GetWishlist(ctx, userID)

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, live, products[0].ID)
	})
}
