package suggestion

import "gorm.io/gorm"

type SuggestionContainer struct {
	Handler *Handler
	Repo    Repository
}

func NewSuggestionContainer(db *gorm.DB) *SuggestionContainer {
	repo := NewRepository(db)
	service := NewService(repo)

	return &SuggestionContainer{
		Handler: NewHandler(service),
		Repo:    repo,
	}
}
