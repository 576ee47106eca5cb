package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"spectra_backend/internals/features/students/dto"
)

const (
	defaultSearchLimit   = 50
	defaultSearchTimeout = 30 * time.Second
)

type SearchResult struct {
	Field dto.SearchField `json:"field"`
	Match dto.MatchKind   `json:"match"`
	Hits  []dto.SearchHit `json:"hits"`
}

type SearchService struct {
	Store   StudentStore
	Limit   int
	Timeout time.Duration
}

func NewSearchService(store StudentStore) *SearchService {
	return &SearchService{Store: store, Limit: defaultSearchLimit, Timeout: defaultSearchTimeout}
}

// Search classifies the input, runs the projected query and orders the hits
// by similarity to the input.
func (s *SearchService) Search(ctx context.Context, input string) (SearchResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return SearchResult{}, fmt.Errorf("%w: empty search input", ErrValidation)
	}

	field, kind := Classify(input)

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	hits, err := s.Store.Search(ctx, field, kind, input, s.Limit)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: search: %w", ErrStore, err)
	}
	rankHits(field, input, hits)

	return SearchResult{Field: field, Match: kind, Hits: hits}, nil
}

var jaroWinkler = metrics.NewJaroWinkler()

func rankHits(field dto.SearchField, input string, hits []dto.SearchHit) {
	needle := strings.ToLower(input)
	score := make(map[string]float64, len(hits))
	for _, h := range hits {
		score[h.ID] = strutil.Similarity(needle, strings.ToLower(matchedValue(field, h)), jaroWinkler)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return score[hits[i].ID] > score[hits[j].ID]
	})
}

func matchedValue(field dto.SearchField, h dto.SearchHit) string {
	var v *string
	switch field {
	case dto.FieldPhone:
		v = h.Phone
	case dto.FieldHallTicketNumber:
		v = h.HallTicketNumber
	case dto.FieldEmail:
		v = h.Email
	case dto.FieldName:
		v = h.Name
	}
	if v == nil {
		return ""
	}
	return *v
}
