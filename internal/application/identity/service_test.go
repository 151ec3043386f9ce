package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *mockUserRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	return m.Called(ctx, id, email).Error(0)
}
func (m *mockUserRepo) UpdateRefreshToken(ctx context.Context, id int64, token string) error {
	return m.Called(ctx, id, token).Error(0)
}

type mockVerificationRepo struct{ mock.Mock }

func (m *mockVerificationRepo) Create(ctx context.Context, v *domain.EmailVerification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockVerificationRepo) GetByEmailForUpdate(ctx context.Context, email string) (*domain.EmailVerification, error) {
	args := m.Called(ctx, email)
	if v, _ := args.Get(0).(*domain.EmailVerification); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVerificationRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *mockVerificationRepo) MarkVerified(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockVerificationRepo) Consume(ctx context.Context, email string, now time.Time) error {
	return m.Called(ctx, email, now).Error(0)
}
func (m *mockVerificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockVerificationRepo) DeleteExpiredByEmail(ctx context.Context, email string, now time.Time) error {
	return m.Called(ctx, email, now).Error(0)
}

type fakeStore struct {
	users         *mockUserRepo
	verifications *mockVerificationRepo
}

func (s *fakeStore) Users() domain.UserRepository                 { return s.users }
func (s *fakeStore) Verifications() domain.VerificationRepository { return s.verifications }
func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	return fn(ctx, s)
}

// fakeIssuer yields unique, inspectable token strings.
type fakeIssuer struct{ n int }

func (f *fakeIssuer) Issue(userID int64, class domain.TokenClass, roles domain.Roles) (string, error) {
	f.n++
	return fmt.Sprintf("%s#%d#%d", class, userID, f.n), nil
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

// --- builder ---

func newTestService(us *mockUserRepo, vs *mockVerificationRepo) Service {
	return NewService(&fakeStore{users: us, verifications: vs}, &fakeIssuer{}, &fakeClock{now: time.Now()})
}

func mustHash(t *testing.T, raw string) string {
	t.Helper()
	h, err := password.Hash(raw)
	require.NoError(t, err)
	return h
}

// --- SignUp ---

func TestSignUp_HappyPath(t *testing.T) {
	us := &mockUserRepo{}
	vs := &mockVerificationRepo{}

	vs.On("Consume", mock.Anything, "a@x", mock.Anything).Return(nil)
	us.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			u.ID = 1
			assert.Equal(t, domain.Roles{domain.RoleUser}, u.Roles)
			assert.NotEqual(t, "P@ssw0rd!", u.PasswordHash)
		}).Return(nil)
	us.On("UpdateRefreshToken", mock.Anything, int64(1), mock.Anything).Return(nil)

	svc := newTestService(us, vs)
	pair, err := svc.SignUp(context.Background(), domain.SignUpRequest{Email: "a@x", Password: "P@ssw0rd!"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The stored refresh token is exactly the one returned to the caller.
	us.AssertCalled(t, "UpdateRefreshToken", mock.Anything, int64(1), pair.RefreshToken)
}

func TestSignUp_NotVerified(t *testing.T) {
	us := &mockUserRepo{}
	vs := &mockVerificationRepo{}
	vs.On("Consume", mock.Anything, "a@x", mock.Anything).Return(domain.ErrNotVerified)

	svc := newTestService(us, vs)
	_, err := svc.SignUp(context.Background(), domain.SignUpRequest{Email: "a@x", Password: "P@ssw0rd!"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotVerified))
	us.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_IllegalPassword(t *testing.T) {
	us := &mockUserRepo{}
	vs := &mockVerificationRepo{}
	vs.On("Consume", mock.Anything, "a@x", mock.Anything).Return(nil)

	svc := newTestService(us, vs)
	_, err := svc.SignUp(context.Background(), domain.SignUpRequest{Email: "a@x", Password: "weak"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIllegalPassword))
	us.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_DuplicateEmailRace(t *testing.T) {
	us := &mockUserRepo{}
	vs := &mockVerificationRepo{}
	vs.On("Consume", mock.Anything, "a@x", mock.Anything).Return(nil)
	us.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	svc := newTestService(us, vs)
	_, err := svc.SignUp(context.Background(), domain.SignUpRequest{Email: "a@x", Password: "P@ssw0rd!"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateEmail))
}

// --- SignIn ---

func TestSignIn_HappyPath(t *testing.T) {
	us := &mockUserRepo{}
	hash := mustHash(t, "P@ssw0rd!")
	old := "REFRESH#1#old"
	us.On("GetByEmail", mock.Anything, "a@x").Return(&domain.User{
		ID: 1, Email: "a@x", PasswordHash: hash,
		Roles: domain.Roles{domain.RoleUser}, RefreshToken: &old,
	}, nil)
	us.On("UpdateRefreshToken", mock.Anything, int64(1), mock.Anything).Return(nil)

	svc := newTestService(us, &mockVerificationRepo{})
	pair, err := svc.SignIn(context.Background(), domain.SignInRequest{Email: "a@x", Password: "P@ssw0rd!"})
	require.NoError(t, err)
	assert.NotEqual(t, old, pair.RefreshToken)
	us.AssertCalled(t, "UpdateRefreshToken", mock.Anything, int64(1), pair.RefreshToken)
}

func TestSignIn_FailureIsUniform(t *testing.T) {
	us := &mockUserRepo{}
	us.On("GetByEmail", mock.Anything, "missing@x").Return(nil, domain.ErrUserNotFound)
	us.On("GetByEmail", mock.Anything, "a@x").Return(&domain.User{
		ID: 1, Email: "a@x", PasswordHash: mustHash(t, "P@ssw0rd!"),
		Roles: domain.Roles{domain.RoleUser},
	}, nil)

	svc := newTestService(us, &mockVerificationRepo{})

	_, errMissing := svc.SignIn(context.Background(), domain.SignInRequest{Email: "missing@x", Password: "anything1!"})
	_, errWrong := svc.SignIn(context.Background(), domain.SignInRequest{Email: "a@x", Password: "wrong-pass1!"})

	require.Error(t, errMissing)
	require.Error(t, errWrong)
	assert.True(t, errors.Is(errMissing, domain.ErrSignInFailed))
	assert.True(t, errors.Is(errWrong, domain.ErrSignInFailed))
	// Indistinguishable: same error text for both failure causes.
	assert.Equal(t, errMissing.Error(), errWrong.Error())
}

// --- UpdatePassword ---

func TestUpdatePassword_HappyPath_RotatesRefresh(t *testing.T) {
	us := &mockUserRepo{}
	old := "REFRESH#1#old"
	us.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Email: "a@x", PasswordHash: mustHash(t, "P@ssw0rd!"),
		Roles: domain.Roles{domain.RoleUser}, RefreshToken: &old,
	}, nil)

	var newHash string
	us.On("UpdatePasswordHash", mock.Anything, int64(1), mock.Anything).
		Run(func(args mock.Arguments) { newHash = args.String(2) }).Return(nil)
	us.On("UpdateRefreshToken", mock.Anything, int64(1), mock.Anything).Return(nil)

	svc := newTestService(us, &mockVerificationRepo{})
	refresh, err := svc.UpdatePassword(context.Background(), 1, domain.PasswordUpdateRequest{
		PrevPassword: "P@ssw0rd!", NewPassword: "N3w-P@ss!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, old, refresh)

	ok, err := password.Matches("N3w-P@ss!", newHash)
	require.NoError(t, err)
	assert.True(t, ok)
	us.AssertCalled(t, "UpdateRefreshToken", mock.Anything, int64(1), refresh)
}

func TestUpdatePassword_WrongPrevious(t *testing.T) {
	us := &mockUserRepo{}
	us.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, PasswordHash: mustHash(t, "P@ssw0rd!"), Roles: domain.Roles{domain.RoleUser},
	}, nil)

	svc := newTestService(us, &mockVerificationRepo{})
	_, err := svc.UpdatePassword(context.Background(), 1, domain.PasswordUpdateRequest{
		PrevPassword: "wrong-pass1!", NewPassword: "N3w-P@ss!",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWrongPassword))
	us.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePassword_IllegalNew(t *testing.T) {
	us := &mockUserRepo{}
	us.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, PasswordHash: mustHash(t, "P@ssw0rd!"), Roles: domain.Roles{domain.RoleUser},
	}, nil)

	svc := newTestService(us, &mockVerificationRepo{})
	_, err := svc.UpdatePassword(context.Background(), 1, domain.PasswordUpdateRequest{
		PrevPassword: "P@ssw0rd!", NewPassword: "weak",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIllegalPassword))
}

func TestUpdatePassword_UserNotFound(t *testing.T) {
	us := &mockUserRepo{}
	us.On("GetByID", mock.Anything, int64(9)).Return(nil, domain.ErrUserNotFound)

	svc := newTestService(us, &mockVerificationRepo{})
	_, err := svc.UpdatePassword(context.Background(), 9, domain.PasswordUpdateRequest{
		PrevPassword: "P@ssw0rd!", NewPassword: "N3w-P@ss!",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

// --- UpdateEmail ---

func TestUpdateEmail_HappyPath(t *testing.T) {
	us := &mockUserRepo{}
	vs := &mockVerificationRepo{}

	vs.On("Consume", mock.Anything, "new@x", mock.Anything).Return(nil)
	us.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Email: "a@x", Roles: domain.Roles{domain.RoleUser},
	}, nil)
	us.On("UpdateEmail", mock.Anything, int64(1), "new@x").Return(nil)
	us.On("UpdateRefreshToken", mock.Anything, int64(1), mock.Anything).Return(nil)

	svc := newTestService(us, vs)
	refresh, err := svc.UpdateEmail(context.Background(), 1, domain.EmailUpdateRequest{Email: "new@x"})
	require.NoError(t, err)
	assert.NotEmpty(t, refresh)
	us.AssertCalled(t, "UpdateRefreshToken", mock.Anything, int64(1), refresh)
}

func TestUpdateEmail_NotVerified(t *testing.T) {
	us := &mockUserRepo{}
	vs := &mockVerificationRepo{}
	vs.On("Consume", mock.Anything, "new@x", mock.Anything).Return(domain.ErrNotVerified)

	svc := newTestService(us, vs)
	_, err := svc.UpdateEmail(context.Background(), 1, domain.EmailUpdateRequest{Email: "new@x"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotVerified))
	us.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateEmail_Duplicate(t *testing.T) {
	us := &mockUserRepo{}
	vs := &mockVerificationRepo{}
	vs.On("Consume", mock.Anything, "taken@x", mock.Anything).Return(nil)
	us.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Email: "a@x", Roles: domain.Roles{domain.RoleUser},
	}, nil)
	us.On("UpdateEmail", mock.Anything, int64(1), "taken@x").Return(domain.ErrDuplicateEmail)

	svc := newTestService(us, vs)
	_, err := svc.UpdateEmail(context.Background(), 1, domain.EmailUpdateRequest{Email: "taken@x"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateEmail))
	us.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}
