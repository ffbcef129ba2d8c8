package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/filestorage"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// NewsService defines the interface for the news feed
type NewsService interface {
	List(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, actor Actor, id int64) (*models.News, error)
	Create(ctx context.Context, actor Actor, req *dto.NewsRequest) (*models.News, error)
	Update(ctx context.Context, id int64, req *dto.NewsRequest) (*models.News, error)
	SetPublished(ctx context.Context, id int64, published bool) (*models.News, error)
	Delete(ctx context.Context, id int64) error
}

type newsServiceImpl struct {
	newsRepo NewsStore
	storage  filestorage.FileStorage
	logger   zerolog.Logger
	now      func() time.Time
}

// NewNewsService creates a new NewsService
func NewNewsService(newsRepo NewsStore, storage filestorage.FileStorage, logger zerolog.Logger) NewsService {
	return &newsServiceImpl{
		newsRepo: newsRepo,
		storage:  storage,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *newsServiceImpl) withURL(n *models.News) *models.News {
	n.ImageURL = fileURL(s.storage, n.ImageKey)
	return n
}

// List returns one page of news. Staff only see published items.
func (s *newsServiceImpl) List(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.newsRepo.List(ctx, repositories.ContentFilter{
		Search:     filter.Search,
		ActiveOnly: actor.ActiveOnly(),
	}, repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing news: %w", err)
	}
	for _, n := range items {
		s.withURL(n)
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Get returns one news item
func (s *newsServiceImpl) Get(ctx context.Context, actor Actor, id int64) (*models.News, error) {
	item, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsPublished && actor.ActiveOnly() {
		return nil, apperrors.ErrNewsNotFound
	}
	return s.withURL(item), nil
}

func (s *newsServiceImpl) publish(n *models.News, published bool) {
	if published && !n.IsPublished {
		now := s.now()
		n.PublishedAt = &now
	}
	n.IsPublished = published
}

func (s *newsServiceImpl) apply(n *models.News, req *dto.NewsRequest) error {
	key, err := cleanFileKey(req.ImageKey)
	if err != nil {
		return err
	}
	n.Title = strings.TrimSpace(req.Title)
	n.Summary = strings.TrimSpace(req.Summary)
	n.Body = req.Body
	n.ImageKey = key
	if req.Publish != nil {
		s.publish(n, *req.Publish)
	}
	return nil
}

// Create adds a news item; it stays a draft unless publish is set
func (s *newsServiceImpl) Create(ctx context.Context, actor Actor, req *dto.NewsRequest) (*models.News, error) {
	item := &models.News{AuthorID: &actor.UserID}
	if err := s.apply(item, req); err != nil {
		return nil, err
	}
	if err := s.newsRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("newsID", item.ID).Bool("published", item.IsPublished).Msg("News created")
	return s.withURL(item), nil
}

// Update replaces a news item's fields
func (s *newsServiceImpl) Update(ctx context.Context, id int64, req *dto.NewsRequest) (*models.News, error) {
	item, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKey := item.ImageKey

	if err := s.apply(item, req); err != nil {
		return nil, err
	}
	if err := s.newsRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	removeReplaced(ctx, s.storage, s.logger, oldKey, item.ImageKey)
	return s.withURL(item), nil
}

// SetPublished publishes or unpublishes a news item
func (s *newsServiceImpl) SetPublished(ctx context.Context, id int64, published bool) (*models.News, error) {
	item, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(item, published)
	if err := s.newsRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.withURL(item), nil
}

// Delete removes a news item and its image
func (s *newsServiceImpl) Delete(ctx context.Context, id int64) error {
	item, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.newsRepo.Delete(ctx, id); err != nil {
		return err
	}
	removeReplaced(ctx, s.storage, s.logger, item.ImageKey, nil)
	return nil
}
