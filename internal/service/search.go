package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/repo"
	"context"
	"strings"
	"unicode/utf8"
)

const (
	searchMinRunes = 2
	searchLimit    = 50
)

type SearchService struct {
	search repo.SearchRepository
}

func NewSearchService(search repo.SearchRepository) *SearchService {
	return &SearchService{search: search}
}

// Search ищет по задачам и дневнику; projectID == "" — по всем проектам.
func (s *SearchService) Search(ctx context.Context, q, projectID string) (*repo.SearchResult, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < searchMinRunes {
		return nil, apperr.Validation("La ricerca richiede almeno 2 caratteri")
	}
	return s.search.Search(ctx, q, strings.TrimSpace(projectID), searchLimit)
}
