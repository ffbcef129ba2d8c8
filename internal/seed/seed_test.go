package seed

import (
	"context"
	"testing"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	user.ID = 1
	return args.Error(0)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

type mockDepartments struct{ mock.Mock }

func (m *mockDepartments) Create(ctx context.Context, d *models.Department) error {
	return m.Called(ctx, d.Code).Error(0)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) EnsureDefaults(ctx context.Context, defaults map[string]string) (int64, error) {
	args := m.Called(ctx, defaults)
	return args.Get(0).(int64), args.Error(1)
}

func newSeeder() (*Seeder, *mockUsers, *mockDepartments, *mockSettings) {
	u, d, s := &mockUsers{}, &mockDepartments{}, &mockSettings{}
	return NewSeeder(u, d, s, zerolog.Nop()), u, d, s
}

func TestRun_CreatesEverythingOnEmptyDatabase(t *testing.T) {
	seeder, users, depts, settings := newSeeder()
	ctx := context.Background()

	depts.On("Create", ctx, mock.Anything).Return(nil).Times(len(DefaultDepartments))
	settings.On("EnsureDefaults", ctx, mock.Anything).Return(int64(4), nil)
	users.On("GetByEmail", ctx, "admin@inara.org").Return(nil, apperrors.ErrUserNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "admin@inara.org" && u.Role == models.RoleAdmin && u.IsActive && u.Password != "Passw0rd!"
	})).Return(nil)

	err := seeder.Run(ctx, AdminAccount{Email: " Admin@INARA.org ", Password: "Passw0rd!"})
	require.NoError(t, err)

	users.AssertExpectations(t)
	depts.AssertExpectations(t)
	settings.AssertExpectations(t)
}

func TestRun_ExistingDataIsNotAnError(t *testing.T) {
	seeder, users, depts, settings := newSeeder()
	ctx := context.Background()

	depts.On("Create", ctx, mock.Anything).Return(apperrors.ErrDepartmentAlreadyExists)
	settings.On("EnsureDefaults", ctx, mock.Anything).Return(int64(0), nil)
	users.On("GetByEmail", ctx, "admin@inara.org").Return(&models.User{ID: 7}, nil)

	require.NoError(t, seeder.Run(ctx, AdminAccount{Email: "admin@inara.org", Password: "Passw0rd!"}))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRun_SkipsAdminWithoutCredentials(t *testing.T) {
	seeder, users, depts, settings := newSeeder()
	ctx := context.Background()

	depts.On("Create", ctx, mock.Anything).Return(nil)
	settings.On("EnsureDefaults", ctx, mock.Anything).Return(int64(0), nil)

	require.NoError(t, seeder.Run(ctx, AdminAccount{}))
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_RejectsWeakPassword(t *testing.T) {
	seeder, users, _, _ := newSeeder()
	ctx := context.Background()
	users.On("GetByEmail", ctx, "admin@inara.org").Return(nil, apperrors.ErrUserNotFound)

	created, err := seeder.EnsureAdmin(ctx, AdminAccount{Email: "admin@inara.org", Password: "short"})
	assert.Error(t, err)
	assert.False(t, created)
}

func TestResetPassword(t *testing.T) {
	seeder, users, _, _ := newSeeder()
	ctx := context.Background()
	users.On("GetByEmail", ctx, "amina@inara.org").Return(&models.User{ID: 3}, nil)
	users.On("UpdatePassword", ctx, int64(3), mock.AnythingOfType("string")).Return(nil)

	require.NoError(t, seeder.ResetPassword(ctx, "amina@inara.org", "NewPassw0rd"))
	users.AssertExpectations(t)
}

func TestResetPassword_UnknownUser(t *testing.T) {
	seeder, users, _, _ := newSeeder()
	ctx := context.Background()
	users.On("GetByEmail", ctx, "ghost@inara.org").Return(nil, apperrors.ErrUserNotFound)

	err := seeder.ResetPassword(ctx, "ghost@inara.org", "NewPassw0rd")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
