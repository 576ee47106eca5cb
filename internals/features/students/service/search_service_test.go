package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spectra_backend/internals/features/students/dto"
)

type searchStore struct {
	memStore
	hits  []dto.SearchHit
	err   error
	field dto.SearchField
	kind  dto.MatchKind
	term  string
	limit int
}

func (s *searchStore) Search(_ context.Context, field dto.SearchField, kind dto.MatchKind, term string, limit int) ([]dto.SearchHit, error) {
	s.field, s.kind, s.term, s.limit = field, kind, term, limit
	return s.hits, s.err
}

func TestSearch(t *testing.T) {
	name := func(s string) *string { return &s }

	t.Run("classifies and ranks by similarity", func(t *testing.T) {
		store := &searchStore{hits: []dto.SearchHit{
			{ID: "1", Name: name("Ravi Kumar Reddy")},
			{ID: "2", Name: name("Kumar")},
			{ID: "3", Name: name("Anil Kumaraswamy")},
		}}
		svc := NewSearchService(store)

		res, err := svc.Search(context.Background(), "  kumar ")
		require.NoError(t, err)

		assert.Equal(t, dto.FieldName, res.Field)
		assert.Equal(t, dto.MatchSubstringCaseInsensitive, res.Match)
		assert.Equal(t, "kumar", store.term)
		assert.Equal(t, defaultSearchLimit, store.limit)
		require.Len(t, res.Hits, 3)
		assert.Equal(t, "2", res.Hits[0].ID)
	})

	t.Run("phone exact", func(t *testing.T) {
		store := &searchStore{}
		res, err := NewSearchService(store).Search(context.Background(), "9876543210")
		require.NoError(t, err)
		assert.Equal(t, dto.FieldPhone, store.field)
		assert.Equal(t, dto.MatchExact, store.kind)
		assert.Empty(t, res.Hits)
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := NewSearchService(&searchStore{}).Search(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("store failure", func(t *testing.T) {
		_, err := NewSearchService(&searchStore{err: errors.New("timeout")}).Search(context.Background(), "asha")
		assert.ErrorIs(t, err, ErrStore)
	})
}
