package session_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/saulo-duarte/scent-quiz/internal/analytics"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/metrics"
	"github.com/saulo-duarte/scent-quiz/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo reads sessions straight from the fake store.
type fakeRepo struct {
	store *fakeStore
}

func (r fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*session.Session, error) {
	s, ok := r.store.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]session.Session, error) {
	var out []session.Session
	for _, s := range r.store.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r fakeRepo) ListResponseDetails(_ context.Context, id uuid.UUID) ([]session.ResponseDetail, error) {
	var out []session.ResponseDetail
	for i, q := range r.store.questions {
		for _, resp := range r.store.responses {
			if resp.SessionID != id || resp.QuestionID != q.ID {
				continue
			}
			opt, _ := q.Option(resp.OptionID)
			d := session.ResponseDetail{
				ID:            resp.ID,
				QuestionID:    q.ID,
				QuestionText:  q.Text,
				QuestionOrder: i + 1,
				OptionID:      opt.ID,
				OptionText:    opt.Text,
				ResponseTime:  resp.ResponseTime,
			}
			if opt.ScentNote != nil {
				name := opt.ScentNote.Name
				d.ScentNote = &name
			}
			out = append(out, d)
		}
	}
	return out, nil
}

func asUser(id uuid.UUID) context.Context {
	return auth.WithClaims(context.Background(), &auth.Claims{UserID: id.String(), Role: auth.RoleUser})
}

func newService(t *testing.T) (*fixture, session.SessionService, *session.MemoryStateStore, *metrics.Metrics) {
	t.Helper()
	f := newFixture(t, formula.PolicyFirstInCatalog)
	states := session.NewMemoryStateStore()
	m := metrics.New(nil)
	svc := session.NewService(f.store, fakeRepo{store: f.store}, states, f.engine, analytics.NewRecorder(0), m)
	return f, svc, states, m
}

func TestServiceFlow(t *testing.T) {
	f, svc, states, m := newService(t)
	userID := uuid.New()
	ctx := asUser(userID)

	view, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", view.State)
	assert.Equal(t, 3, view.Total)
	require.NotNil(t, view.Question)
	assert.Equal(t, "q1", view.Question.Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsStarted))

	sel := []uuid.UUID{f.option(0, 0)}
	view, err = svc.Move(ctx, view.ID, session.Forward, &sel)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Current)
	require.NotNil(t, view.Answers[0])
	assert.Equal(t, f.option(0, 0), *view.Answers[0])

	_, err = svc.Submit(ctx, view.ID)
	assert.ErrorIs(t, err, session.ErrIncompleteQuiz)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmitFailures.WithLabelValues("incomplete")))

	view, err = svc.RecordAnswer(ctx, view.ID, 1, []uuid.UUID{f.option(1, 0)})
	require.NoError(t, err)
	view, err = svc.RecordAnswer(ctx, view.ID, 2, []uuid.UUID{f.option(2, 0)})
	require.NoError(t, err)
	assert.Empty(t, view.Missing)

	// the displayed answer of question 2 was recorded above; advancing keeps it
	view, err = svc.Move(ctx, view.ID, session.Forward, nil)
	require.NoError(t, err)
	require.NotNil(t, view.Answers[1])

	result, err := svc.Submit(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Responses)
	assert.Equal(t, "Citrus", result.Formula.Top.Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCompleted.WithLabelValues("FIRST_IN_CATALOG")))

	snap, err := states.Load(ctx, view.ID)
	require.NoError(t, err)
	assert.Nil(t, snap, "completed sessions drop their runner state")

	got, err := svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.State)
	assert.NotNil(t, got.CompletedAt)
	require.Len(t, got.Responses, 3)
	for i, d := range got.Responses {
		assert.Equal(t, f.option(i, 0), d.OptionID)
	}

	details, err := svc.Responses(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Responses, details)

	_, err = svc.Responses(asUser(uuid.New()), view.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = svc.Submit(ctx, view.ID)
	assert.ErrorIs(t, err, session.ErrSessionClosed)

	sessions, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestServiceOwnership(t *testing.T) {
	_, svc, _, _ := newService(t)

	view, err := svc.Start(asUser(uuid.New()))
	require.NoError(t, err)

	_, err = svc.Get(asUser(uuid.New()), view.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Start(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestServiceExpiredState(t *testing.T) {
	_, svc, states, _ := newService(t)
	userID := uuid.New()
	ctx := asUser(userID)

	view, err := svc.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, states.Delete(ctx, view.ID))

	_, err = svc.Move(ctx, view.ID, session.Forward, nil)
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}
