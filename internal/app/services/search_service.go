package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
)

// Search limits
const (
	MinSearchLength    = 2
	DefaultSearchLimit = 30
	maxSnippetRunes    = 160
)

var searchLinks = map[string]string{
	"training": "/trainings/%d",
	"policy":   "/policies/%d",
	"library":  "/library/%d",
	"template": "/templates/%d",
	"news":     "/news/%d",
	"survey":   "/surveys/%d",
}

// SearchService defines the interface for global search
type SearchService interface {
	Search(ctx context.Context, actor Actor, query string, limit int) (*dto.SearchResponse, error)
}

type searchServiceImpl struct {
	searchRepo SearchStore
}

// NewSearchService creates a new SearchService
func NewSearchService(searchRepo SearchStore) SearchService {
	return &searchServiceImpl{searchRepo: searchRepo}
}

// Search matches titles across trainings, policies, library resources, templates, news
// and surveys. Staff only get active or published records.
func (s *searchServiceImpl) Search(ctx context.Context, actor Actor, query string, limit int) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return nil, apperrors.NewValidationError("q", fmt.Sprintf("query must be at least %d characters", MinSearchLength))
	}
	if limit <= 0 || limit > DefaultSearchLimit*2 {
		limit = DefaultSearchLimit
	}

	hits, err := s.searchRepo.Search(ctx, query, actor.CanManage(), limit)
	if err != nil {
		return nil, fmt.Errorf("error searching: %w", err)
	}

	results := make([]dto.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, dto.SearchResult{
			Type:    h.Type,
			ID:      h.ID,
			Title:   h.Title,
			Snippet: snippet(h.Snippet),
			Link:    fmt.Sprintf(searchLinks[h.Type], h.ID),
		})
	}
	return &dto.SearchResponse{Query: query, Total: len(results), Results: results}, nil
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxSnippetRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxSnippetRunes])) + "…"
}
