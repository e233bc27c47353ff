package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/validation"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrQuestionNotFound = fmt.Errorf("%w: question not found", apperr.ErrNotFound)
	ErrUnknownScentNote = fmt.Errorf("%w: option references an unknown scent note", apperr.ErrValidation)
	ErrQuestionInUse    = fmt.Errorf("%w: question already has recorded responses", apperr.ErrConflict)
	ErrPositionTaken    = fmt.Errorf("%w: another question already has this order_index", apperr.ErrConflict)
)

type QuizService interface {
	ListBank(ctx context.Context) ([]Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	ListOptions(ctx context.Context, questionID uuid.UUID) ([]Option, error)
	CreateQuestion(ctx context.Context, dto CreateQuestionDTO) (*Question, error)
	RemoveQuestion(ctx context.Context, id uuid.UUID) error
}

type quizService struct {
	repo      Repository
	notes     catalog.Repository
	validator *validation.Validator
}

func NewService(repo Repository, notes catalog.Repository, v *validation.Validator) QuizService {
	return &quizService{
		repo:      repo,
		notes:     notes,
		validator: v,
	}
}

func (s *quizService) ListBank(ctx context.Context) ([]Question, error) {
	log := config.WithContext(ctx)

	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list question bank")
		return nil, fmt.Errorf("%w: list questions: %w", apperr.ErrPersistence, err)
	}
	return questions, nil
}

func (s *quizService) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	log := config.WithContext(ctx)

	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).WithField("question_id", id).Error("Failed to get question")
		return nil, fmt.Errorf("%w: get question: %w", apperr.ErrPersistence, err)
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

func (s *quizService) ListOptions(ctx context.Context, questionID uuid.UUID) ([]Option, error) {
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}

	options, err := s.repo.ListOptions(ctx, questionID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list options")
		return nil, fmt.Errorf("%w: list options: %w", apperr.ErrPersistence, err)
	}
	return options, nil
}

func (s *quizService) CreateQuestion(ctx context.Context, dto CreateQuestionDTO) (*Question, error) {
	log := config.WithContext(ctx)

	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.checkNotes(ctx, dto.Options); err != nil {
		return nil, err
	}

	order := 0
	if dto.OrderIndex != nil {
		order = *dto.OrderIndex
	} else {
		next, err := s.repo.NextOrderIndex(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to compute next question position")
			return nil, fmt.Errorf("%w: next order index: %w", apperr.ErrPersistence, err)
		}
		order = next
	}

	q := &Question{
		Text:       dto.Text,
		Type:       dto.Type,
		OrderIndex: order,
	}
	for i, o := range dto.Options {
		q.Options = append(q.Options, Option{
			Text:        o.Text,
			ScentNoteID: o.ScentNoteID,
			OrderIndex:  i + 1,
		})
	}

	if err := s.repo.CreateWithOptions(ctx, q); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %d", ErrPositionTaken, order)
		}
		log.WithError(err).Error("Failed to create question")
		return nil, fmt.Errorf("%w: create question: %w", apperr.ErrPersistence, err)
	}

	log.WithFields(logrus.Fields{
		"question_id": q.ID,
		"options":     len(q.Options),
	}).Info("Question created")
	return q, nil
}

func (s *quizService) checkNotes(ctx context.Context, options []CreateOptionDTO) error {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, o := range options {
		if o.ScentNoteID != nil && !seen[*o.ScentNoteID] {
			seen[*o.ScentNoteID] = true
			ids = append(ids, *o.ScentNoteID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := s.notes.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("%w: look up scent notes: %w", apperr.ErrPersistence, err)
	}
	if len(found) != len(ids) {
		return ErrUnknownScentNote
	}
	return nil
}

func (s *quizService) RemoveQuestion(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx).WithField("question_id", id)

	if _, err := s.GetQuestion(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			log.Warn("Question still referenced by responses")
			return ErrQuestionInUse
		}
		log.WithError(err).Error("Failed to remove question")
		return fmt.Errorf("%w: delete question: %w", apperr.ErrPersistence, err)
	}

	log.Info("Question removed")
	return nil
}
