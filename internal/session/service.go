package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/metrics"
	"github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound = fmt.Errorf("%w: session not found", apperr.ErrNotFound)
	ErrSessionExpired  = fmt.Errorf("%w: session state expired, start a new session", apperr.ErrNotFound)
	ErrUnauthorized    = fmt.Errorf("%w: no authenticated user", apperr.ErrUnauthorized)
)

type Direction int

const (
	Forward Direction = iota
	Backward
)

type SessionService interface {
	Start(ctx context.Context) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	List(ctx context.Context) ([]Session, error)
	RecordAnswer(ctx context.Context, id uuid.UUID, index int, optionIDs []uuid.UUID) (*View, error)
	Move(ctx context.Context, id uuid.UUID, dir Direction, selection *[]uuid.UUID) (*View, error)
	Submit(ctx context.Context, id uuid.UUID) (*SubmitView, error)
	// Responses lists the stored answers of one of the caller's sessions.
	Responses(ctx context.Context, id uuid.UUID) ([]ResponseDetail, error)
}

type sessionService struct {
	store    Store
	repo     Repository
	states   StateStore
	deriver  Deriver
	recorder Recorder
	metrics  *metrics.Metrics
}

func NewService(store Store, repo Repository, states StateStore, deriver Deriver, recorder Recorder, m *metrics.Metrics) SessionService {
	return &sessionService{
		store:    store,
		repo:     repo,
		states:   states,
		deriver:  deriver,
		recorder: recorder,
		metrics:  m,
	}
}

func getUserIDFromContext(ctx context.Context, log logrus.FieldLogger, action string) (uuid.UUID, error) {
	id, err := auth.UserIDFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}

func (s *sessionService) save(ctx context.Context, log logrus.FieldLogger, r *Runner) error {
	if err := s.states.Save(ctx, r.Snapshot()); err != nil {
		log.WithError(err).Error("Failed to save session state")
		return fmt.Errorf("%w: save session state: %w", apperr.ErrPersistence, err)
	}
	return nil
}

// load restores the caller's runner. Sessions of other users are reported as
// not found.
func (s *sessionService) load(ctx context.Context, log logrus.FieldLogger, id, userID uuid.UUID) (*Runner, error) {
	snap, err := s.states.Load(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to load session state")
		return nil, fmt.Errorf("%w: load session state: %w", apperr.ErrPersistence, err)
	}
	if snap != nil {
		if snap.Session.UserID != userID {
			return nil, ErrSessionNotFound
		}
		return Restore(*snap, s.store, s.deriver, s.recorder)
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get session")
		return nil, fmt.Errorf("%w: get session: %w", apperr.ErrPersistence, err)
	}
	switch {
	case row == nil || row.UserID != userID:
		return nil, ErrSessionNotFound
	case row.IsCompleted():
		return nil, ErrSessionClosed
	default:
		return nil, ErrSessionExpired
	}
}

func (s *sessionService) Start(ctx context.Context) (*View, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "start session")
	if err != nil {
		return nil, err
	}

	r := NewRunner(s.store, s.deriver, s.recorder)
	if err := r.Start(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to start session")
		return nil, err
	}
	s.metrics.SessionStarted()

	if err := s.save(ctx, log, r); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": r.Session().ID,
		"questions":  len(r.Questions()),
	}).Info("Session started")
	return newView(r), nil
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	log := config.WithContext(ctx).WithField("session_id", id)
	userID, err := getUserIDFromContext(ctx, log, "get session")
	if err != nil {
		return nil, err
	}

	r, err := s.load(ctx, log, id, userID)
	if errors.Is(err, ErrSessionClosed) {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil || row == nil {
			return nil, ErrSessionNotFound
		}
		details, err := s.listDetails(ctx, log, id)
		if err != nil {
			return nil, err
		}
		return completedView(row, details), nil
	}
	if err != nil {
		return nil, err
	}
	return newView(r), nil
}

func (s *sessionService) Responses(ctx context.Context, id uuid.UUID) ([]ResponseDetail, error) {
	log := config.WithContext(ctx).WithField("session_id", id)
	userID, err := getUserIDFromContext(ctx, log, "list session responses")
	if err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get session")
		return nil, fmt.Errorf("%w: get session: %w", apperr.ErrPersistence, err)
	}
	if row == nil || row.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s.listDetails(ctx, log, id)
}

func (s *sessionService) listDetails(ctx context.Context, log logrus.FieldLogger, id uuid.UUID) ([]ResponseDetail, error) {
	details, err := s.repo.ListResponseDetails(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to list session responses")
		return nil, fmt.Errorf("%w: list responses: %w", apperr.ErrPersistence, err)
	}
	if details == nil {
		details = []ResponseDetail{}
	}
	return details, nil
}

func (s *sessionService) List(ctx context.Context) ([]Session, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "list sessions")
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list sessions")
		return nil, fmt.Errorf("%w: list sessions: %w", apperr.ErrPersistence, err)
	}
	return sessions, nil
}

func (s *sessionService) RecordAnswer(ctx context.Context, id uuid.UUID, index int, optionIDs []uuid.UUID) (*View, error) {
	log := config.WithContext(ctx).WithField("session_id", id)
	userID, err := getUserIDFromContext(ctx, log, "record answer")
	if err != nil {
		return nil, err
	}

	r, err := s.load(ctx, log, id, userID)
	if err != nil {
		return nil, err
	}
	if err := r.RecordAnswer(index, optionIDs...); err != nil {
		log.WithError(err).WithField("index", index).Warn("Rejected answer")
		return nil, err
	}
	if err := s.save(ctx, log, r); err != nil {
		return nil, err
	}
	return newView(r), nil
}

// Move optionally replaces the displayed selection, then advances or
// retreats.
func (s *sessionService) Move(ctx context.Context, id uuid.UUID, dir Direction, selection *[]uuid.UUID) (*View, error) {
	log := config.WithContext(ctx).WithField("session_id", id)
	userID, err := getUserIDFromContext(ctx, log, "navigate session")
	if err != nil {
		return nil, err
	}

	r, err := s.load(ctx, log, id, userID)
	if err != nil {
		return nil, err
	}
	if selection != nil {
		if err := r.Select(*selection...); err != nil {
			log.WithError(err).Warn("Rejected selection")
			return nil, err
		}
	}

	if dir == Backward {
		err = r.Retreat()
	} else {
		err = r.Advance()
	}
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, log, r); err != nil {
		return nil, err
	}
	return newView(r), nil
}

func (s *sessionService) Submit(ctx context.Context, id uuid.UUID) (*SubmitView, error) {
	log := config.WithContext(ctx).WithField("session_id", id)
	userID, err := getUserIDFromContext(ctx, log, "submit session")
	if err != nil {
		return nil, err
	}

	r, err := s.load(ctx, log, id, userID)
	if err != nil {
		return nil, err
	}

	res, err := r.Submit(ctx)
	if err != nil {
		var incomplete *IncompleteError
		switch {
		case errors.As(err, &incomplete):
			s.metrics.SubmitFailed("incomplete")
			log.WithField("missing", incomplete.Missing).Info("Submission rejected, quiz incomplete")
			// keep the committed display so the caller resumes where it was
			if err := s.save(ctx, log, r); err != nil {
				return nil, err
			}
		case errors.Is(err, apperr.ErrDataIntegrity):
			s.metrics.SubmitFailed("data_integrity")
			log.WithError(err).Error("Submission aborted by reference data")
		default:
			s.metrics.SubmitFailed("persistence")
			log.WithError(err).Error("Failed to submit session")
		}
		return nil, err
	}

	if err := s.states.Delete(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to drop state of completed session")
	}
	s.metrics.SessionCompleted(string(res.Selection.Policy))

	log.WithFields(logrus.Fields{
		"user_id":   userID,
		"responses": len(res.Responses),
		"policy":    res.Selection.Policy,
		"top":       res.Selection.Top.Name,
		"middle":    res.Selection.Middle.Name,
		"base":      res.Selection.Base.Name,
	}).Info("Session submitted")
	return newSubmitView(res), nil
}
