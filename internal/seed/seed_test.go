package seed_test

import (
	"context"
	"testing"

	"github.com/saulo-duarte/scent-quiz/internal/seed"
	"github.com/saulo-duarte/scent-quiz/internal/suggestion"
	"github.com/saulo-duarte/scent-quiz/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)

	first, err := seed.Run(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, seed.Report{Notes: 5, Questions: 3, Suggestions: 3}, first)

	second, err := seed.Run(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, seed.Report{}, second)
}

func TestSuggestionsReferenceNotes(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	_, err := seed.Run(ctx, db)
	require.NoError(t, err)

	svc := suggestion.NewService(suggestion.NewRepository(db))

	out, err := svc.ListSuggestions(ctx, "confused")
	require.NoError(t, err)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, "Invigorating mix for uncertain moods", s.Description)
	require.NotNil(t, s.BaseNote)
	require.NotNil(t, s.MiddleNote)
	require.NotNil(t, s.TopNote)
	assert.Equal(t, "Sandalwood", s.BaseNote.Name)
	assert.Equal(t, "Jasmine", s.MiddleNote.Name)
	assert.Equal(t, "Citrus", s.TopNote.Name)

	all, err := svc.ListSuggestions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListSuggestions(ctx, "Furious")
	assert.Error(t, err)
}
