package quiz

import (
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/validation"
	"gorm.io/gorm"
)

type QuizContainer struct {
	Handler *Handler
	Service QuizService
}

func NewQuizContainer(db *gorm.DB, notes catalog.Repository, v *validation.Validator) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(repo, notes, v)
	handler := NewHandler(service)

	return &QuizContainer{
		Handler: handler,
		Service: service,
	}
}
