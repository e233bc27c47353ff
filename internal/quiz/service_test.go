package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/gateway"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
	"github.com/saulo-duarte/scent-quiz/internal/seed"
	"github.com/saulo-duarte/scent-quiz/internal/testutil"
	"github.com/saulo-duarte/scent-quiz/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*gorm.DB, quiz.QuizService) {
	t.Helper()
	db := testutil.DB(t)
	_, err := seed.Run(context.Background(), db)
	require.NoError(t, err)
	return db, quiz.NewService(quiz.NewRepository(db), catalog.NewRepository(db), validation.New())
}

func TestListBank(t *testing.T) {
	_, svc := newService(t)

	bank, err := svc.ListBank(context.Background())
	require.NoError(t, err)
	require.Len(t, bank, 3)

	assert.Equal(t, "Which scent do you prefer in the morning?", bank[0].Text)
	assert.Equal(t, quiz.SingleChoice, bank[0].Type)
	require.Len(t, bank[0].Options, 2)
	assert.Equal(t, "Fresh Lavender", bank[0].Options[0].Text)
	require.NotNil(t, bank[0].Options[0].ScentNote)
	assert.Equal(t, "Lavender", bank[0].Options[0].ScentNote.Name)

	assert.Equal(t, quiz.MultiChoice, bank[2].Type)
}

func TestCreateQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("AppendsToBank", func(t *testing.T) {
		db, svc := newService(t)
		notes, err := catalog.NewRepository(db).ListByCategory(ctx, catalog.CategoryMiddle)
		require.NoError(t, err)
		jasmine := notes[len(notes)-1].ID

		q, err := svc.CreateQuestion(ctx, quiz.CreateQuestionDTO{
			Text: "Pick an evening scent",
			Type: quiz.SingleChoice,
			Options: []quiz.CreateOptionDTO{
				{Text: "Night Jasmine", ScentNoteID: &jasmine},
				{Text: "No preference"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 4, q.OrderIndex)

		bank, err := svc.ListBank(ctx)
		require.NoError(t, err)
		require.Len(t, bank, 4)
		assert.Equal(t, q.ID, bank[3].ID)
		assert.Len(t, bank[3].Options, 2)
	})

	t.Run("RejectsTakenPosition", func(t *testing.T) {
		_, svc := newService(t)
		taken := 2

		_, err := svc.CreateQuestion(ctx, quiz.CreateQuestionDTO{
			Text:       "Duplicate slot",
			Type:       quiz.SingleChoice,
			OrderIndex: &taken,
			Options:    []quiz.CreateOptionDTO{{Text: "Anything"}},
		})
		assert.ErrorIs(t, err, quiz.ErrPositionTaken)
		assert.ErrorIs(t, err, apperr.ErrConflict)

		bank, err := svc.ListBank(ctx)
		require.NoError(t, err)
		require.Len(t, bank, 3)
		for i, q := range bank {
			assert.Equal(t, i+1, q.OrderIndex)
		}
	})

	t.Run("RejectsInvalidInput", func(t *testing.T) {
		_, svc := newService(t)

		_, err := svc.CreateQuestion(ctx, quiz.CreateQuestionDTO{Text: "No options", Type: quiz.SingleChoice})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = svc.CreateQuestion(ctx, quiz.CreateQuestionDTO{
			Text:    "Bad type",
			Type:    "free-text",
			Options: []quiz.CreateOptionDTO{{Text: "x"}},
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("RejectsUnknownNote", func(t *testing.T) {
		_, svc := newService(t)
		ghost := uuid.New()

		_, err := svc.CreateQuestion(ctx, quiz.CreateQuestionDTO{
			Text:    "Ghost note",
			Type:    quiz.SingleChoice,
			Options: []quiz.CreateOptionDTO{{Text: "boo", ScentNoteID: &ghost}},
		})
		assert.ErrorIs(t, err, quiz.ErrUnknownScentNote)
	})
}

func TestRemoveQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("Unused", func(t *testing.T) {
		_, svc := newService(t)
		q, err := svc.CreateQuestion(ctx, quiz.CreateQuestionDTO{
			Text:    "Temporary",
			Type:    quiz.SingleChoice,
			Options: []quiz.CreateOptionDTO{{Text: "only"}},
		})
		require.NoError(t, err)

		require.NoError(t, svc.RemoveQuestion(ctx, q.ID))

		_, err = svc.GetQuestion(ctx, q.ID)
		assert.ErrorIs(t, err, quiz.ErrQuestionNotFound)
	})

	t.Run("Missing", func(t *testing.T) {
		_, svc := newService(t)
		assert.ErrorIs(t, svc.RemoveQuestion(ctx, uuid.New()), quiz.ErrQuestionNotFound)
	})

	t.Run("AnsweredQuestionIsKept", func(t *testing.T) {
		db, svc := newService(t)
		gw := gateway.New(db)
		u := testutil.User(t, db, "Helena")

		bank, err := svc.ListBank(ctx)
		require.NoError(t, err)
		sess, err := gw.CreateSession(ctx, u.ID, time.Now())
		require.NoError(t, err)
		_, err = gw.CreateResponse(ctx, sess.ID, bank[0].ID, bank[0].Options[0].ID, time.Now())
		require.NoError(t, err)

		err = svc.RemoveQuestion(ctx, bank[0].ID)
		assert.ErrorIs(t, err, quiz.ErrQuestionInUse)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}
