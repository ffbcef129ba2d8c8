package services

import (
	"context"
	"strings"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/filestorage"
	"github.com/rs/zerolog"
)

// WorkSystemService defines the interface for the internal systems catalogue
type WorkSystemService interface {
	List(ctx context.Context, actor Actor) ([]*models.WorkSystem, error)
	Get(ctx context.Context, actor Actor, id int64) (*models.WorkSystem, error)
	Create(ctx context.Context, req *dto.WorkSystemRequest) (*models.WorkSystem, error)
	Update(ctx context.Context, id int64, req *dto.WorkSystemRequest) (*models.WorkSystem, error)
	Delete(ctx context.Context, id int64) error
	AddRule(ctx context.Context, id int64, req *dto.AccessRuleRequest) (*models.AccessRule, error)
	DeleteRule(ctx context.Context, id, ruleID int64) error
}

type workSystemServiceImpl struct {
	workSystemRepo WorkSystemStore
	userRepo       UserStore
	departmentRepo DepartmentStore
	storage        filestorage.FileStorage
	logger         zerolog.Logger
}

// NewWorkSystemService creates a new WorkSystemService
func NewWorkSystemService(
	workSystemRepo WorkSystemStore,
	userRepo UserStore,
	departmentRepo DepartmentStore,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) WorkSystemService {
	return &workSystemServiceImpl{
		workSystemRepo: workSystemRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		storage:        storage,
		logger:         logger,
	}
}

func (s *workSystemServiceImpl) withURL(w *models.WorkSystem) *models.WorkSystem {
	w.IconURL = fileURL(s.storage, w.IconKey)
	return w
}

// List returns the systems the caller may open. Managers see everything with its rules.
func (s *workSystemServiceImpl) List(ctx context.Context, actor Actor) ([]*models.WorkSystem, error) {
	systems, err := s.workSystemRepo.List(ctx, actor.ActiveOnly())
	if err != nil {
		return nil, err
	}
	if actor.CanManage() {
		for _, w := range systems {
			s.withURL(w)
		}
		return systems, nil
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.WorkSystem, 0, len(systems))
	for _, w := range systems {
		if models.CanAccess(user, w.AccessRules) {
			w.AccessRules = nil
			visible = append(visible, s.withURL(w))
		}
	}
	return visible, nil
}

// Get returns one system if the caller may open it
func (s *workSystemServiceImpl) Get(ctx context.Context, actor Actor, id int64) (*models.WorkSystem, error) {
	system, err := s.workSystemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.CanManage() {
		return s.withURL(system), nil
	}
	if !system.IsActive {
		return nil, apperrors.ErrWorkSystemNotFound
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !models.CanAccess(user, system.AccessRules) {
		return nil, apperrors.NewForbiddenError("you do not have access to this system")
	}
	system.AccessRules = nil
	return s.withURL(system), nil
}

func applyWorkSystemRequest(w *models.WorkSystem, req *dto.WorkSystemRequest) error {
	key, err := cleanFileKey(req.IconKey)
	if err != nil {
		return err
	}
	w.Name = strings.TrimSpace(req.Name)
	w.Description = req.Description
	w.URL = strings.TrimSpace(req.URL)
	w.IconKey = key
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	return nil
}

// Create adds a system
func (s *workSystemServiceImpl) Create(ctx context.Context, req *dto.WorkSystemRequest) (*models.WorkSystem, error) {
	system := &models.WorkSystem{IsActive: true}
	if err := applyWorkSystemRequest(system, req); err != nil {
		return nil, err
	}
	if err := s.workSystemRepo.Create(ctx, system); err != nil {
		return nil, err
	}
	system.AccessRules = []models.AccessRule{}
	return s.withURL(system), nil
}

// Update replaces a system's fields
func (s *workSystemServiceImpl) Update(ctx context.Context, id int64, req *dto.WorkSystemRequest) (*models.WorkSystem, error) {
	system, err := s.workSystemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKey := system.IconKey

	if err := applyWorkSystemRequest(system, req); err != nil {
		return nil, err
	}
	if err := s.workSystemRepo.Update(ctx, system); err != nil {
		return nil, err
	}
	removeReplaced(ctx, s.storage, s.logger, oldKey, system.IconKey)
	return s.withURL(system), nil
}

// Delete removes a system with its rules
func (s *workSystemServiceImpl) Delete(ctx context.Context, id int64) error {
	system, err := s.workSystemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.workSystemRepo.Delete(ctx, id); err != nil {
		return err
	}
	removeReplaced(ctx, s.storage, s.logger, system.IconKey, nil)
	return nil
}

// AddRule attaches an allow or deny rule. A rule must name a department, a role or both.
func (s *workSystemServiceImpl) AddRule(ctx context.Context, id int64, req *dto.AccessRuleRequest) (*models.AccessRule, error) {
	rule := &models.AccessRule{WorkSystemID: id, DepartmentID: req.DepartmentID, Allow: *req.Allow}
	if req.Role != nil {
		role := models.Role(strings.ToUpper(*req.Role))
		if !role.Valid() {
			return nil, apperrors.NewValidationError("role", "unknown role")
		}
		rule.Role = &role
	}
	if rule.DepartmentID == nil && rule.Role == nil {
		return nil, apperrors.NewValidationError("departmentId", "a rule needs a department, a role or both")
	}
	if rule.DepartmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, *rule.DepartmentID); err != nil {
			return nil, err
		}
	}

	if err := s.workSystemRepo.AddRule(ctx, rule); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("workSystemID", id).Int64("ruleID", rule.ID).Bool("allow", rule.Allow).Msg("Access rule added")
	return rule, nil
}

// DeleteRule removes a rule from a system
func (s *workSystemServiceImpl) DeleteRule(ctx context.Context, id, ruleID int64) error {
	return s.workSystemRepo.DeleteRule(ctx, id, ruleID)
}
