package formula_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotes struct {
	byCategory map[catalog.Category][]catalog.ScentNote
	err        error
}

func (f *fakeNotes) ListByCategory(_ context.Context, c catalog.Category) ([]catalog.ScentNote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byCategory[c], nil
}

func note(name string, c catalog.Category, order int) catalog.ScentNote {
	return catalog.ScentNote{ID: uuid.New(), Name: name, Category: c, OrderIndex: order}
}

func sampleCatalog() (*fakeNotes, map[string]catalog.ScentNote) {
	citrus := note("Citrus", catalog.CategoryTop, 1)
	lavender := note("Lavender", catalog.CategoryTop, 2)
	vanilla := note("Vanilla", catalog.CategoryMiddle, 1)
	jasmine := note("Jasmine", catalog.CategoryMiddle, 2)
	sandalwood := note("Sandalwood", catalog.CategoryBase, 1)

	src := &fakeNotes{byCategory: map[catalog.Category][]catalog.ScentNote{
		catalog.CategoryTop:    {citrus, lavender},
		catalog.CategoryMiddle: {vanilla, jasmine},
		catalog.CategoryBase:   {sandalwood},
	}}
	return src, map[string]catalog.ScentNote{
		"Citrus":     citrus,
		"Lavender":   lavender,
		"Vanilla":    vanilla,
		"Jasmine":    jasmine,
		"Sandalwood": sandalwood,
	}
}

func answerFor(n catalog.ScentNote) formula.Answer {
	id := n.ID
	return formula.Answer{QuestionID: uuid.New(), OptionID: uuid.New(), ScentNoteID: &id}
}

func TestEngineFirstInCatalog(t *testing.T) {
	src, notes := sampleCatalog()
	engine := formula.NewEngine(src, formula.PolicyFirstInCatalog)

	answerSets := map[string][]formula.Answer{
		"NoAnswers":     nil,
		"LavenderVotes": {answerFor(notes["Lavender"]), answerFor(notes["Lavender"])},
		"JasmineVote":   {answerFor(notes["Jasmine"]), {QuestionID: uuid.New(), OptionID: uuid.New()}},
	}

	for name, answers := range answerSets {
		t.Run(name, func(t *testing.T) {
			sel, err := engine.Derive(context.Background(), answers)
			require.NoError(t, err)

			assert.Equal(t, "Citrus", sel.Top.Name)
			assert.Equal(t, "Vanilla", sel.Middle.Name)
			assert.Equal(t, "Sandalwood", sel.Base.Name)
			assert.Equal(t, formula.PolicyFirstInCatalog, sel.Policy)
		})
	}
}

func TestEngineMostFrequentNote(t *testing.T) {
	src, notes := sampleCatalog()
	engine := formula.NewEngine(src, formula.PolicyMostFrequentNote)

	t.Run("PicksMostVoted", func(t *testing.T) {
		answers := []formula.Answer{
			answerFor(notes["Lavender"]),
			answerFor(notes["Lavender"]),
			answerFor(notes["Citrus"]),
			answerFor(notes["Jasmine"]),
		}

		sel, err := engine.Derive(context.Background(), answers)
		require.NoError(t, err)

		assert.Equal(t, "Lavender", sel.Top.Name)
		assert.Equal(t, "Jasmine", sel.Middle.Name)
		assert.Equal(t, "Sandalwood", sel.Base.Name)
	})

	t.Run("TiesKeepCatalogOrder", func(t *testing.T) {
		answers := []formula.Answer{
			answerFor(notes["Lavender"]),
			answerFor(notes["Citrus"]),
		}

		sel, err := engine.Derive(context.Background(), answers)
		require.NoError(t, err)
		assert.Equal(t, "Citrus", sel.Top.Name)
		assert.Equal(t, "Vanilla", sel.Middle.Name)
	})
}

func TestEngineUniformRandom(t *testing.T) {
	src, _ := sampleCatalog()

	derive := func(seed uint64) formula.Selection {
		engine := formula.NewEngine(src, formula.PolicyUniformRandom,
			formula.WithRand(rand.New(rand.NewPCG(seed, seed))))
		sel, err := engine.Derive(context.Background(), nil)
		require.NoError(t, err)
		return sel
	}

	first := derive(42)
	assert.Equal(t, first, derive(42), "same seed must give the same formula")
	assert.Equal(t, "Sandalwood", first.Base.Name, "single-note category is always chosen")

	seen := map[string]bool{}
	for seed := uint64(0); seed < 64; seed++ {
		seen[derive(seed).Top.Name] = true
	}
	assert.True(t, seen["Citrus"] && seen["Lavender"], "both top notes should be drawn, got %v", seen)
}

func TestEngineEmptyCategory(t *testing.T) {
	src, _ := sampleCatalog()
	src.byCategory[catalog.CategoryMiddle] = nil

	for _, p := range formula.AllPolicies {
		t.Run(string(p), func(t *testing.T) {
			_, err := formula.NewEngine(src, p).Derive(context.Background(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, formula.ErrEmptyCategory)
			assert.ErrorIs(t, err, apperr.ErrDataIntegrity)
		})
	}
}

func TestEngineSourceFailure(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := formula.NewEngine(&fakeNotes{err: boom}, formula.PolicyFirstInCatalog).
		Derive(context.Background(), nil)

	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.ErrorIs(t, err, boom)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    formula.Policy
		wantErr bool
	}{
		{"", formula.PolicyFirstInCatalog, false},
		{"uniform_random", formula.PolicyUniformRandom, false},
		{" MOST_FREQUENT_NOTE ", formula.PolicyMostFrequentNote, false},
		{"ALWAYS_LAVENDER", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := formula.ParsePolicy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTally(t *testing.T) {
	_, notes := sampleCatalog()
	counts := formula.Tally([]formula.Answer{
		answerFor(notes["Vanilla"]),
		answerFor(notes["Vanilla"]),
		{QuestionID: uuid.New(), OptionID: uuid.New()},
	})

	assert.Equal(t, map[uuid.UUID]int{notes["Vanilla"].ID: 2}, counts)
}
