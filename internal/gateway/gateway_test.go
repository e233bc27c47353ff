package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/analytics"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/gateway"
	"github.com/saulo-duarte/scent-quiz/internal/seed"
	"github.com/saulo-duarte/scent-quiz/internal/session"
	"github.com/saulo-duarte/scent-quiz/internal/testutil"
	"github.com/saulo-duarte/scent-quiz/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *gateway.Gateway) {
	t.Helper()
	db := testutil.DB(t)
	_, err := seed.Run(context.Background(), db)
	require.NoError(t, err)
	return db, gateway.New(db)
}

// completeSession answers every question with its first option and submits.
func completeSession(t *testing.T, db *gorm.DB, gw *gateway.Gateway, userID uuid.UUID) *session.Result {
	t.Helper()
	ctx := context.Background()

	engine := formula.NewEngine(catalog.NewRepository(db), formula.PolicyFirstInCatalog)
	r := session.NewRunner(gw, engine, analytics.NewRecorder(0))
	require.NoError(t, r.Start(ctx, userID))

	for i, q := range r.Questions() {
		require.NoError(t, r.RecordAnswer(i, q.Options[0].ID))
	}
	res, err := r.Submit(ctx)
	require.NoError(t, err)
	return res
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestSubmitPersistsEverything(t *testing.T) {
	db, gw := setup(t)
	u := testutil.User(t, db, "Ana")

	res := completeSession(t, db, gw, u.ID)

	assert.Len(t, res.Responses, 3)
	assert.Equal(t, int64(3), count(t, db, &session.Response{}, "session_id = ?", res.Session.ID))
	assert.Equal(t, int64(1), count(t, db, &formula.Formula{}, "session_id = ?", res.Session.ID))
	assert.Equal(t, int64(1), count(t, db, &analytics.Analytics{}, "session_id = ?", res.Session.ID))

	var stored session.Session
	require.NoError(t, db.First(&stored, "id = ?", res.Session.ID).Error)
	require.NotNil(t, stored.CompletedAt)
	assert.False(t, stored.CompletedAt.Before(stored.StartedAt))

	// seeded catalog order: Lavender, Vanilla, Sandalwood
	assert.Equal(t, "Lavender", res.Selection.Top.Name)
	assert.Equal(t, "Vanilla", res.Selection.Middle.Name)
	assert.Equal(t, "Sandalwood", res.Selection.Base.Name)

	views, err := formula.NewRepository(db).ListViews(context.Background(), &u.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Ana", views[0].UserName)
	assert.Equal(t, "Lavender", views[0].TopNote)

	stats, err := analytics.NewRepository(db).ListViews(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Ana", stats[0].UserName)
	assert.Equal(t, 3, stats[0].TotalQuestions)
	assert.Equal(t, "Lavender", stats[0].PopularScentNote)
}

func TestDeleteUserCascade(t *testing.T) {
	ctx := context.Background()

	t.Run("FullDeleteIsIdempotent", func(t *testing.T) {
		db, gw := setup(t)
		u := testutil.User(t, db, "Bruno")
		other := testutil.User(t, db, "Carla")

		completeSession(t, db, gw, u.ID)
		completeSession(t, db, gw, u.ID)
		otherRes := completeSession(t, db, gw, other.ID)

		report, err := gw.DeleteUserCascade(ctx, u.ID, false)
		require.NoError(t, err)
		assert.Equal(t, user.DeleteReport{
			Analytics: 2,
			Formulas:  2,
			Responses: 6,
			Sessions:  2,
			Users:     1,
		}, report)
		assert.Equal(t, int64(13), report.Total())

		again, err := gw.DeleteUserCascade(ctx, u.ID, false)
		require.NoError(t, err)
		assert.Zero(t, again.Total())

		found, err := gw.GetUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Nil(t, found)

		assert.Equal(t, int64(3), count(t, db, &session.Response{}, "session_id = ?", otherRes.Session.ID),
			"other users keep their data")
	})

	t.Run("KeepUser", func(t *testing.T) {
		db, gw := setup(t)
		u := testutil.User(t, db, "Davi")
		completeSession(t, db, gw, u.ID)

		report, err := gw.DeleteUserCascade(ctx, u.ID, true)
		require.NoError(t, err)
		assert.Equal(t, int64(0), report.Users)
		assert.Equal(t, int64(1), report.Sessions)

		found, err := gw.GetUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, u.ID, found.ID)
	})
}

func TestInTxRollsBack(t *testing.T) {
	db, gw := setup(t)
	u := testutil.User(t, db, "Eva")
	ctx := context.Background()
	boom := errors.New("boom")

	var created uuid.UUID
	err := gw.InTx(ctx, func(s session.Store) error {
		sess, err := s.CreateSession(ctx, u.ID, time.Now())
		if err != nil {
			return err
		}
		created = sess.ID
		return boom
	})

	require.ErrorIs(t, err, boom)
	require.NotEqual(t, uuid.Nil, created)
	assert.Equal(t, int64(0), count(t, db, &session.Session{}, "id = ?", created))
}

func TestCompleteSessionOnce(t *testing.T) {
	_, gw := setup(t)
	ctx := context.Background()

	id, err := gw.CreateUser(ctx, "Fabio", "fabio@example.com", 40, user.GenderMale)
	require.NoError(t, err)

	sess, err := gw.CreateSession(ctx, id, time.Now())
	require.NoError(t, err)

	require.NoError(t, gw.CompleteSession(ctx, sess.ID, time.Now()))
	assert.ErrorIs(t, gw.CompleteSession(ctx, sess.ID, time.Now()), gateway.ErrSessionNotInProgress)
	assert.ErrorIs(t, gw.CompleteSession(ctx, uuid.New(), time.Now()), gateway.ErrSessionNotInProgress)
}

func TestGatewayReads(t *testing.T) {
	_, gw := setup(t)
	ctx := context.Background()

	top, err := gw.ListNotesByCategory(ctx, catalog.CategoryTop)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Lavender", top[0].Name)
	assert.Equal(t, "Citrus", top[1].Name)

	questions, err := gw.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "Which scent do you prefer in the morning?", questions[0].Text)

	options, err := gw.ListOptions(ctx, questions[0].ID)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "Fresh Lavender", options[0].Text)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	_, gw := setup(t)
	ctx := context.Background()

	_, err := gw.CreateUser(ctx, "Gil", "gil@example.com", 22, user.GenderOther)
	require.NoError(t, err)

	_, err = gw.CreateUser(ctx, "Gil Again", "gil@example.com", 23, user.GenderOther)
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestResponseDetailsFollowBankOrder(t *testing.T) {
	db, gw := setup(t)
	ctx := context.Background()
	u := testutil.User(t, db, "Rui")

	questions, err := gw.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	sess, err := gw.CreateSession(ctx, u.ID, time.Now())
	require.NoError(t, err)

	// Written last question first with one shared timestamp.
	at := time.Now()
	for i := len(questions) - 1; i >= 0; i-- {
		_, err := gw.CreateResponse(ctx, sess.ID, questions[i].ID, questions[i].Options[0].ID, at)
		require.NoError(t, err)
	}

	details, err := session.NewRepository(db).ListResponseDetails(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, details, 3)

	wantNotes := []string{"Lavender", "Vanilla", "Sandalwood"}
	for i, d := range details {
		assert.Equal(t, questions[i].ID, d.QuestionID)
		assert.Equal(t, questions[i].Text, d.QuestionText)
		assert.Equal(t, questions[i].Options[0].Text, d.OptionText)
		require.NotNil(t, d.ScentNote)
		assert.Equal(t, wantNotes[i], *d.ScentNote)
	}

	none, err := session.NewRepository(db).ListResponseDetails(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
