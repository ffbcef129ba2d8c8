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

// LibraryService defines the interface for library resources and document templates
type LibraryService interface {
	List(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, actor Actor, id int64) (*models.LibraryResource, error)
	Create(ctx context.Context, actor Actor, req *dto.LibraryRequest) (*models.LibraryResource, error)
	Update(ctx context.Context, id int64, req *dto.LibraryRequest) (*models.LibraryResource, error)
	Delete(ctx context.Context, id int64) error

	ListTemplates(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error)
	GetTemplate(ctx context.Context, actor Actor, id int64) (*models.Template, error)
	CreateTemplate(ctx context.Context, req *dto.TemplateRequest) (*models.Template, error)
	UpdateTemplate(ctx context.Context, id int64, req *dto.TemplateRequest) (*models.Template, error)
	DeleteTemplate(ctx context.Context, id int64) error
}

type libraryServiceImpl struct {
	libraryRepo LibraryStore
	storage     filestorage.FileStorage
	logger      zerolog.Logger
}

// NewLibraryService creates a new LibraryService
func NewLibraryService(libraryRepo LibraryStore, storage filestorage.FileStorage, logger zerolog.Logger) LibraryService {
	return &libraryServiceImpl{
		libraryRepo: libraryRepo,
		storage:     storage,
		logger:      logger,
	}
}

func toRepoFilter(f *dto.ContentFilter, actor Actor) repositories.ContentFilter {
	return repositories.ContentFilter{
		Search:     f.Search,
		Category:   f.Category,
		Type:       f.ResourceType,
		Tag:        f.Tag,
		ActiveOnly: actor.ActiveOnly(),
	}
}

// List returns one page of library resources
func (s *libraryServiceImpl) List(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.libraryRepo.List(ctx, toRepoFilter(filter, actor), repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing library resources: %w", err)
	}
	for _, r := range items {
		r.FileURL = fileURL(s.storage, r.FileKey)
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Get returns one library resource
func (s *libraryServiceImpl) Get(ctx context.Context, actor Actor, id int64) (*models.LibraryResource, error) {
	resource, err := s.libraryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resource.IsActive && actor.ActiveOnly() {
		return nil, apperrors.ErrLibraryNotFound
	}
	resource.FileURL = fileURL(s.storage, resource.FileKey)
	return resource, nil
}

func applyLibraryRequest(r *models.LibraryResource, req *dto.LibraryRequest) error {
	key, err := cleanFileKey(req.FileKey)
	if err != nil {
		return err
	}
	r.Title = strings.TrimSpace(req.Title)
	r.Description = req.Description
	r.Category = strings.TrimSpace(req.Category)
	r.ResourceType = strings.ToUpper(req.ResourceType)
	r.FileKey = key
	r.ExternalURL = helpers.NilIfEmpty(strings.TrimSpace(helpers.Deref(req.ExternalURL)))
	r.Tags = helpers.NormalizeTags(req.Tags)
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}

	switch {
	case r.ResourceType == models.ResourceTypeLink && r.ExternalURL == nil:
		return apperrors.NewValidationError("externalUrl", "externalUrl is required for LINK resources")
	case r.FileKey == nil && r.ExternalURL == nil:
		return apperrors.NewValidationError("fileKey", "either fileKey or externalUrl is required")
	}
	return nil
}

// Create adds a library resource
func (s *libraryServiceImpl) Create(ctx context.Context, actor Actor, req *dto.LibraryRequest) (*models.LibraryResource, error) {
	resource := &models.LibraryResource{IsActive: true, UploadedBy: &actor.UserID}
	if err := applyLibraryRequest(resource, req); err != nil {
		return nil, err
	}
	if err := s.libraryRepo.Create(ctx, resource); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("resourceID", resource.ID).Str("type", resource.ResourceType).Msg("Library resource created")

	resource.FileURL = fileURL(s.storage, resource.FileKey)
	return resource, nil
}

// Update replaces a library resource's fields
func (s *libraryServiceImpl) Update(ctx context.Context, id int64, req *dto.LibraryRequest) (*models.LibraryResource, error) {
	resource, err := s.libraryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKey := resource.FileKey

	if err := applyLibraryRequest(resource, req); err != nil {
		return nil, err
	}
	if err := s.libraryRepo.Update(ctx, resource); err != nil {
		return nil, err
	}
	removeReplaced(ctx, s.storage, s.logger, oldKey, resource.FileKey)

	resource.FileURL = fileURL(s.storage, resource.FileKey)
	return resource, nil
}

// Delete removes a library resource and its file
func (s *libraryServiceImpl) Delete(ctx context.Context, id int64) error {
	resource, err := s.libraryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.libraryRepo.Delete(ctx, id); err != nil {
		return err
	}
	removeReplaced(ctx, s.storage, s.logger, resource.FileKey, nil)
	return nil
}

// --- Templates ---

func (s *libraryServiceImpl) templateURL(t *models.Template) *models.Template {
	t.FileURL = fileURL(s.storage, &t.FileKey)
	return t
}

// ListTemplates returns one page of templates
func (s *libraryServiceImpl) ListTemplates(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.libraryRepo.ListTemplates(ctx, toRepoFilter(filter, actor), repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing templates: %w", err)
	}
	for _, t := range items {
		s.templateURL(t)
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetTemplate returns one template
func (s *libraryServiceImpl) GetTemplate(ctx context.Context, actor Actor, id int64) (*models.Template, error) {
	tmpl, err := s.libraryRepo.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive && actor.ActiveOnly() {
		return nil, apperrors.ErrTemplateNotFound
	}
	return s.templateURL(tmpl), nil
}

func applyTemplateRequest(t *models.Template, req *dto.TemplateRequest) error {
	key, err := cleanFileKey(&req.FileKey)
	if err != nil {
		return err
	}
	if key == nil {
		return apperrors.NewValidationError("fileKey", "fileKey is required")
	}
	t.Name = strings.TrimSpace(req.Name)
	t.Description = req.Description
	t.Category = strings.TrimSpace(req.Category)
	t.FileKey = *key
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	return nil
}

// CreateTemplate adds a template
func (s *libraryServiceImpl) CreateTemplate(ctx context.Context, req *dto.TemplateRequest) (*models.Template, error) {
	tmpl := &models.Template{IsActive: true}
	if err := applyTemplateRequest(tmpl, req); err != nil {
		return nil, err
	}
	if err := s.libraryRepo.CreateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	return s.templateURL(tmpl), nil
}

// UpdateTemplate replaces a template's fields
func (s *libraryServiceImpl) UpdateTemplate(ctx context.Context, id int64, req *dto.TemplateRequest) (*models.Template, error) {
	tmpl, err := s.libraryRepo.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKey := tmpl.FileKey

	if err := applyTemplateRequest(tmpl, req); err != nil {
		return nil, err
	}
	if err := s.libraryRepo.UpdateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	removeReplaced(ctx, s.storage, s.logger, &oldKey, &tmpl.FileKey)
	return s.templateURL(tmpl), nil
}

// DeleteTemplate removes a template and its file
func (s *libraryServiceImpl) DeleteTemplate(ctx context.Context, id int64) error {
	tmpl, err := s.libraryRepo.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.libraryRepo.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	removeReplaced(ctx, s.storage, s.logger, &tmpl.FileKey, nil)
	return nil
}
