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

// PolicyService defines the interface for policy operations
type PolicyService interface {
	List(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, actor Actor, id int64) (*models.Policy, error)
	Create(ctx context.Context, actor Actor, req *dto.PolicyRequest) (*models.Policy, error)
	Update(ctx context.Context, id int64, req *dto.PolicyRequest) (*models.Policy, error)
	Delete(ctx context.Context, id int64) error
	Acknowledge(ctx context.Context, actor Actor, id int64) (*dto.PolicyAckResponse, error)
	AckStatus(ctx context.Context, actor Actor, id int64) (*dto.PolicyAckResponse, error)
	Pending(ctx context.Context, actor Actor) ([]*models.Policy, error)
}

type policyServiceImpl struct {
	policyRepo    PolicyStore
	notifications NotificationService
	storage       filestorage.FileStorage
	logger        zerolog.Logger
}

// NewPolicyService creates a new PolicyService
func NewPolicyService(
	policyRepo PolicyStore,
	notifications NotificationService,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) PolicyService {
	return &policyServiceImpl{
		policyRepo:    policyRepo,
		notifications: notifications,
		storage:       storage,
		logger:        logger,
	}
}

func (s *policyServiceImpl) withURL(p *models.Policy) *models.Policy {
	p.FileURL = fileURL(s.storage, p.FileKey)
	return p
}

// List returns one page of policies
func (s *policyServiceImpl) List(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.policyRepo.List(ctx, repositories.ContentFilter{
		Search:     filter.Search,
		Category:   filter.Category,
		ActiveOnly: actor.ActiveOnly(),
	}, repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing policies: %w", err)
	}
	for _, p := range items {
		s.withURL(p)
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Get returns a policy; inactive policies are hidden from staff
func (s *policyServiceImpl) Get(ctx context.Context, actor Actor, id int64) (*models.Policy, error) {
	policy, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsActive && actor.ActiveOnly() {
		return nil, apperrors.ErrPolicyNotFound
	}
	return s.withURL(policy), nil
}

func (s *policyServiceImpl) apply(p *models.Policy, req *dto.PolicyRequest) error {
	key, err := cleanFileKey(req.FileKey)
	if err != nil {
		return err
	}
	p.Title = strings.TrimSpace(req.Title)
	p.Category = strings.TrimSpace(req.Category)
	p.Summary = req.Summary
	p.Body = req.Body
	p.Version = strings.TrimSpace(req.Version)
	if p.Version == "" {
		p.Version = "1.0"
	}
	p.EffectiveDate = req.EffectiveDate
	p.FileKey = key
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if p.Body == "" && p.FileKey == nil {
		return apperrors.NewValidationError("body", "either body or fileKey is required")
	}
	return nil
}

// Create adds a policy and optionally notifies all active users
func (s *policyServiceImpl) Create(ctx context.Context, actor Actor, req *dto.PolicyRequest) (*models.Policy, error) {
	policy := &models.Policy{IsActive: true, CreatedBy: &actor.UserID}
	if err := s.apply(policy, req); err != nil {
		return nil, err
	}
	if err := s.policyRepo.Create(ctx, policy); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("policyID", policy.ID).Int64("createdBy", actor.UserID).Msg("Policy created")

	if req.Notify && policy.IsActive {
		s.announce(ctx, policy, "New policy")
	}
	return s.withURL(policy), nil
}

func (s *policyServiceImpl) announce(ctx context.Context, p *models.Policy, title string) {
	link := fmt.Sprintf("/policies/%d", p.ID)
	body := fmt.Sprintf("Please read and acknowledge %q (version %s).", p.Title, p.Version)
	if _, err := s.notifications.NotifyActiveUsers(ctx, title, body, &link); err != nil {
		s.logger.Warn().Err(err).Int64("policyID", p.ID).Msg("Failed to announce policy")
	}
}

// Update replaces a policy's fields. A replaced attachment is removed from storage.
func (s *policyServiceImpl) Update(ctx context.Context, id int64, req *dto.PolicyRequest) (*models.Policy, error) {
	policy, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKey := policy.FileKey

	if err := s.apply(policy, req); err != nil {
		return nil, err
	}
	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}
	removeReplaced(ctx, s.storage, s.logger, oldKey, policy.FileKey)

	if req.Notify && policy.IsActive {
		s.announce(ctx, policy, "Policy updated")
	}
	return s.withURL(policy), nil
}

// Delete removes a policy, its acknowledgements and its attachment
func (s *policyServiceImpl) Delete(ctx context.Context, id int64) error {
	policy, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policyRepo.Delete(ctx, id); err != nil {
		return err
	}
	removeReplaced(ctx, s.storage, s.logger, policy.FileKey, nil)
	s.logger.Info().Int64("policyID", id).Msg("Policy deleted")
	return nil
}

// Acknowledge records that the caller has read the policy. Repeating it is a no-op.
func (s *policyServiceImpl) Acknowledge(ctx context.Context, actor Actor, id int64) (*dto.PolicyAckResponse, error) {
	policy, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsActive {
		return nil, apperrors.NewBadRequestError("inactive policies cannot be acknowledged")
	}

	ack, err := s.policyRepo.Acknowledge(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.PolicyAckResponse{PolicyID: id, Acknowledged: true, AcknowledgedAt: &ack.AcknowledgedAt}, nil
}

// AckStatus reports whether the caller has acknowledged the policy
func (s *policyServiceImpl) AckStatus(ctx context.Context, actor Actor, id int64) (*dto.PolicyAckResponse, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	ack, err := s.policyRepo.GetAcknowledgement(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := &dto.PolicyAckResponse{PolicyID: id}
	if ack != nil {
		resp.Acknowledged = true
		resp.AcknowledgedAt = &ack.AcknowledgedAt
	}
	return resp, nil
}

// Pending returns the active policies the caller has not acknowledged yet
func (s *policyServiceImpl) Pending(ctx context.Context, actor Actor) ([]*models.Policy, error) {
	acked, err := s.policyRepo.AcknowledgedPolicyIDs(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading acknowledgements: %w", err)
	}

	pending := make([]*models.Policy, 0)
	filter := repositories.ContentFilter{ActiveOnly: true}
	for page := 1; ; page++ {
		items, total, err := s.policyRepo.List(ctx, filter, repositories.Page{Number: page, Size: helpers.MaxPageSize})
		if err != nil {
			return nil, fmt.Errorf("error listing policies: %w", err)
		}
		for _, p := range items {
			if !acked[p.ID] {
				pending = append(pending, s.withURL(p))
			}
		}
		if len(items) == 0 || int64(page*helpers.MaxPageSize) >= total {
			break
		}
	}
	return pending, nil
}
