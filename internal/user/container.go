package user

import (
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/validation"
	"gorm.io/gorm"
)

type UserContainer struct {
	Handler *Handler
	Service UserService
	Repo    UserRepository
}

func NewUserContainer(db *gorm.DB, purger Purger, v *validation.Validator, authSettings config.AuthSettings) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo, purger, v, authSettings)
	handler := NewHandler(service, int(authSettings.TokenTTL.Seconds()))

	return &UserContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
