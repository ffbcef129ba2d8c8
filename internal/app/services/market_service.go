package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/filestorage"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// MarketService defines the interface for the staff market board
type MarketService interface {
	List(ctx context.Context, actor Actor, filter *dto.MarketFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, actor Actor, id int64) (*models.MarketSubmission, error)
	Submit(ctx context.Context, actor Actor, req *dto.MarketSubmissionRequest) (*models.MarketSubmission, error)
	Update(ctx context.Context, actor Actor, id int64, req *dto.MarketSubmissionRequest) (*models.MarketSubmission, error)
	Review(ctx context.Context, actor Actor, id int64, req *dto.ReviewRequest) (*models.MarketSubmission, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}

type marketServiceImpl struct {
	marketRepo    MarketStore
	notifications NotificationService
	storage       filestorage.FileStorage
	logger        zerolog.Logger
}

// NewMarketService creates a new MarketService
func NewMarketService(
	marketRepo MarketStore,
	notifications NotificationService,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) MarketService {
	return &marketServiceImpl{
		marketRepo:    marketRepo,
		notifications: notifications,
		storage:       storage,
		logger:        logger,
	}
}

func (s *marketServiceImpl) withURL(m *models.MarketSubmission) *models.MarketSubmission {
	m.FileURL = fileURL(s.storage, m.FileKey)
	return m
}

// List returns one page of submissions. Staff see approved items and their own.
func (s *marketServiceImpl) List(ctx context.Context, actor Actor, filter *dto.MarketFilter, page, size int) (*dto.PaginatedResponse, error) {
	f := repositories.MarketFilter{
		Search:   filter.Search,
		Category: filter.Category,
		Status:   models.SubmissionStatus(strings.ToUpper(filter.Status)),
	}
	if filter.Mine {
		f.SubmittedBy = &actor.UserID
	} else if !actor.CanManage() {
		f.VisibleTo = &actor.UserID
	}

	items, total, err := s.marketRepo.List(ctx, f, repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing market submissions: %w", err)
	}
	for _, m := range items {
		s.withURL(m)
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Get returns a submission visible to the caller
func (s *marketServiceImpl) Get(ctx context.Context, actor Actor, id int64) (*models.MarketSubmission, error) {
	item, err := s.marketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != models.SubmissionApproved && item.SubmittedBy != actor.UserID && !actor.CanManage() {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return s.withURL(item), nil
}

func applyMarketRequest(m *models.MarketSubmission, req *dto.MarketSubmissionRequest) error {
	key, err := cleanFileKey(req.FileKey)
	if err != nil {
		return err
	}
	m.Title = strings.TrimSpace(req.Title)
	m.Description = req.Description
	m.Category = strings.TrimSpace(req.Category)
	m.Price = req.Price
	m.Contact = strings.TrimSpace(req.Contact)
	m.FileKey = key
	return nil
}

// Submit creates a submission awaiting review
func (s *marketServiceImpl) Submit(ctx context.Context, actor Actor, req *dto.MarketSubmissionRequest) (*models.MarketSubmission, error) {
	item := &models.MarketSubmission{SubmittedBy: actor.UserID}
	if err := applyMarketRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.marketRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("submissionID", item.ID).Int64("submittedBy", actor.UserID).Msg("Market submission created")
	return s.withURL(item), nil
}

// ownedPending loads a submission the caller may still change
func (s *marketServiceImpl) ownedPending(ctx context.Context, actor Actor, id int64) (*models.MarketSubmission, error) {
	item, err := s.marketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.CanManage() {
		return item, nil
	}
	if item.SubmittedBy != actor.UserID {
		return nil, apperrors.NewForbiddenError("only the submitter can change this submission")
	}
	if item.Status != models.SubmissionPending {
		return nil, apperrors.NewConflictError("submission has already been reviewed")
	}
	return item, nil
}

// Update edits a submission. Staff may only edit their own pending submissions.
func (s *marketServiceImpl) Update(ctx context.Context, actor Actor, id int64, req *dto.MarketSubmissionRequest) (*models.MarketSubmission, error) {
	item, err := s.ownedPending(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	oldKey := item.FileKey

	if err := applyMarketRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.marketRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	removeReplaced(ctx, s.storage, s.logger, oldKey, item.FileKey)
	return s.withURL(item), nil
}

// Review approves or rejects a submission and notifies its submitter
func (s *marketServiceImpl) Review(ctx context.Context, actor Actor, id int64, req *dto.ReviewRequest) (*models.MarketSubmission, error) {
	status := models.SubmissionStatus(strings.ToUpper(req.Status))
	if status != models.SubmissionApproved && status != models.SubmissionRejected {
		return nil, apperrors.NewValidationError("status", "status must be APPROVED or REJECTED")
	}

	item, err := s.marketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Status = status
	item.ReviewNote = helpers.NilIfEmpty(strings.TrimSpace(req.Note))
	item.ReviewedBy = &actor.UserID
	if err := s.marketRepo.Review(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("submissionID", id).
		Str("status", string(status)).
		Int64("reviewedBy", actor.UserID).
		Msg("Market submission reviewed")

	link := fmt.Sprintf("/market/%d", id)
	body := fmt.Sprintf("Your submission %q was %s.", item.Title, strings.ToLower(string(status)))
	if item.ReviewNote != nil {
		body += " Note: " + *item.ReviewNote
	}
	if _, err := s.notifications.Notify(ctx, []int64{item.SubmittedBy}, "Market submission reviewed", body, &link); err != nil {
		s.logger.Warn().Err(err).Int64("submissionID", id).Msg("Failed to notify submitter")
	}
	return s.withURL(item), nil
}

// Delete removes a submission. Staff may only delete their own pending submissions.
func (s *marketServiceImpl) Delete(ctx context.Context, actor Actor, id int64) error {
	item, err := s.ownedPending(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.marketRepo.Delete(ctx, id); err != nil {
		return err
	}
	removeReplaced(ctx, s.storage, s.logger, item.FileKey, nil)
	return nil
}
