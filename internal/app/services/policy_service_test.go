package services

import (
	"context"
	"testing"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPolicies() (PolicyService, *mockPolicyStore, *mockNotifications, *fakeStorage) {
	store, notes, files := &mockPolicyStore{}, &mockNotifications{}, &fakeStorage{}
	return NewPolicyService(store, notes, files, zerolog.Nop()), store, notes, files
}

func TestPolicyCreate_RequiresBodyOrFile(t *testing.T) {
	svc, store, _, _ := newPolicies()
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	_, err := svc.Create(context.Background(), admin, &dto.PolicyRequest{Title: "Code of Conduct"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))

	_, err = svc.Create(context.Background(), admin, &dto.PolicyRequest{Title: "Code of Conduct", FileKey: strPtr("../etc/passwd")})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPolicyCreate_NotifiesAndDefaultsVersion(t *testing.T) {
	svc, store, notes, _ := newPolicies()
	ctx := context.Background()

	store.On("Create", ctx, mock.AnythingOfType("*models.Policy")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Policy).ID = 9 }).
		Return(nil)
	notes.On("NotifyActiveUsers", ctx, "New policy", mock.Anything, strPtr("/policies/9")).Return(12, nil)

	policy, err := svc.Create(ctx, Actor{UserID: 1, Role: models.RoleAdmin}, &dto.PolicyRequest{
		Title:   "Code of Conduct",
		FileKey: strPtr("/uploads/policies/coc.pdf"),
		Notify:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "1.0", policy.Version)
	assert.Equal(t, "policies/coc.pdf", *policy.FileKey)
	assert.Equal(t, "/files/policies/coc.pdf", policy.FileURL)
	notes.AssertExpectations(t)
}

func TestPolicyUpdate_RemovesReplacedFile(t *testing.T) {
	svc, store, _, files := newPolicies()
	ctx := context.Background()

	store.On("GetByID", ctx, int64(9)).
		Return(&models.Policy{ID: 9, Title: "Code of Conduct", IsActive: true, FileKey: strPtr("policies/old.pdf")}, nil)
	store.On("Update", ctx, mock.Anything).Return(nil)

	policy, err := svc.Update(ctx, 9, &dto.PolicyRequest{Title: "Code of Conduct", Version: "2.0", FileKey: strPtr("policies/new.pdf")})
	require.NoError(t, err)

	assert.Equal(t, "2.0", policy.Version)
	assert.Equal(t, []string{"policies/old.pdf"}, files.deleted)
}

func TestPolicyAcknowledge(t *testing.T) {
	svc, store, _, _ := newPolicies()
	ctx := context.Background()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	store.On("GetByID", ctx, int64(9)).Return(&models.Policy{ID: 9, IsActive: true, Body: "text"}, nil)
	store.On("Acknowledge", ctx, int64(9), int64(7)).
		Return(&models.PolicyAcknowledgement{PolicyID: 9, UserID: 7, AcknowledgedAt: at}, nil)

	resp, err := svc.Acknowledge(ctx, staff, 9)
	require.NoError(t, err)
	assert.True(t, resp.Acknowledged)
	assert.Equal(t, at, *resp.AcknowledgedAt)
}

func TestPolicyAcknowledge_InactiveRejectedForManagers(t *testing.T) {
	svc, store, _, _ := newPolicies()
	ctx := context.Background()
	store.On("GetByID", ctx, int64(9)).Return(&models.Policy{ID: 9, IsActive: false}, nil)

	_, err := svc.Acknowledge(ctx, staff, 9)
	assert.ErrorIs(t, err, apperrors.ErrPolicyNotFound)

	_, err = svc.Acknowledge(ctx, Actor{UserID: 2, Role: models.RoleManager}, 9)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	store.AssertNotCalled(t, "Acknowledge", mock.Anything, mock.Anything, mock.Anything)
}

func TestPolicyPending_FiltersAcknowledged(t *testing.T) {
	svc, store, _, _ := newPolicies()
	ctx := context.Background()

	store.On("AcknowledgedPolicyIDs", ctx, int64(7)).Return(map[int64]bool{1: true}, nil)
	store.On("List", ctx, repositories.ContentFilter{ActiveOnly: true}, repositories.Page{Number: 1, Size: helpers.MaxPageSize}).
		Return([]*models.Policy{{ID: 1}, {ID: 2}, {ID: 3}}, int64(3), nil)

	pending, err := svc.Pending(ctx, staff)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(2), pending[0].ID)
	assert.Equal(t, int64(3), pending[1].ID)
}
