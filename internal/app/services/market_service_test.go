package services

import (
	"context"
	"testing"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMarket() (MarketService, *mockMarketStore, *mockNotifications, *fakeStorage) {
	store, notes, files := &mockMarketStore{}, &mockNotifications{}, &fakeStorage{}
	return NewMarketService(store, notes, files, zerolog.Nop()), store, notes, files
}

func TestMarketList_StaffSeeApprovedAndOwn(t *testing.T) {
	svc, store, _, _ := newMarket()
	ctx := context.Background()
	page := repositories.Page{Number: 1, Size: 20}

	store.On("List", ctx, mock.MatchedBy(func(f repositories.MarketFilter) bool {
		return f.VisibleTo != nil && *f.VisibleTo == 7 && f.SubmittedBy == nil && f.Status == models.SubmissionApproved
	}), page).Return([]*models.MarketSubmission{}, int64(0), nil)
	store.On("List", ctx, mock.MatchedBy(func(f repositories.MarketFilter) bool {
		return f.VisibleTo == nil && f.SubmittedBy == nil
	}), page).Return([]*models.MarketSubmission{}, int64(0), nil)

	_, err := svc.List(ctx, staff, &dto.MarketFilter{Status: "approved"}, 1, 20)
	require.NoError(t, err)
	_, err = svc.List(ctx, Actor{UserID: 2, Role: models.RoleManager}, &dto.MarketFilter{}, 1, 20)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestMarketGet_HidesOthersPending(t *testing.T) {
	svc, store, _, _ := newMarket()
	ctx := context.Background()
	store.On("GetByID", ctx, int64(3)).Return(&models.MarketSubmission{ID: 3, SubmittedBy: 8, Status: models.SubmissionPending}, nil)

	_, err := svc.Get(ctx, staff, 3)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)

	item, err := svc.Get(ctx, Actor{UserID: 8, Role: models.RoleStaff}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.ID)
}

func TestMarketUpdate_OnlyOwnPending(t *testing.T) {
	svc, store, _, _ := newMarket()
	ctx := context.Background()
	req := &dto.MarketSubmissionRequest{Title: "Laptop", Contact: "ext 204"}

	store.On("GetByID", ctx, int64(3)).Return(&models.MarketSubmission{ID: 3, SubmittedBy: 8, Status: models.SubmissionPending}, nil).Once()
	_, err := svc.Update(ctx, staff, 3, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrPermissionDenied))

	store.On("GetByID", ctx, int64(3)).Return(&models.MarketSubmission{ID: 3, SubmittedBy: 7, Status: models.SubmissionApproved}, nil).Once()
	_, err = svc.Update(ctx, staff, 3, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMarketReview_NotifiesSubmitter(t *testing.T) {
	svc, store, notes, _ := newMarket()
	ctx := context.Background()
	manager := Actor{UserID: 2, Role: models.RoleManager}

	store.On("GetByID", ctx, int64(3)).Return(&models.MarketSubmission{ID: 3, Title: "Laptop", SubmittedBy: 7, Status: models.SubmissionPending}, nil)
	store.On("Review", ctx, mock.Anything).Return(nil)
	notes.On("Notify", ctx, []int64{7}, "Market submission reviewed",
		`Your submission "Laptop" was rejected. Note: Missing photo`, strPtr("/market/3")).Return(1, nil)

	item, err := svc.Review(ctx, manager, 3, &dto.ReviewRequest{Status: "rejected", Note: " Missing photo "})
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionRejected, item.Status)
	assert.Equal(t, int64(2), *item.ReviewedBy)
	notes.AssertExpectations(t)
}

func TestMarketReview_RejectsUnknownStatus(t *testing.T) {
	svc, store, _, _ := newMarket()

	_, err := svc.Review(context.Background(), Actor{UserID: 2, Role: models.RoleAdmin}, 3, &dto.ReviewRequest{Status: "PENDING"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))
	store.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestMarketDelete_RemovesFile(t *testing.T) {
	svc, store, _, files := newMarket()
	ctx := context.Background()

	store.On("GetByID", ctx, int64(3)).
		Return(&models.MarketSubmission{ID: 3, SubmittedBy: 7, Status: models.SubmissionPending, FileKey: strPtr("market/laptop.jpg")}, nil)
	store.On("Delete", ctx, int64(3)).Return(nil)

	require.NoError(t, svc.Delete(ctx, staff, 3))
	assert.Equal(t, []string{"market/laptop.jpg"}, files.deleted)
}
