package session

import (
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/metrics"
	"gorm.io/gorm"
)

type SessionContainer struct {
	Handler *Handler
	Service SessionService
	Repo    Repository
}

func NewSessionContainer(
	db *gorm.DB,
	store Store,
	states StateStore,
	deriver Deriver,
	recorder Recorder,
	formulas formula.FormulaService,
	m *metrics.Metrics,
) *SessionContainer {
	repo := NewRepository(db)
	service := NewService(store, repo, states, deriver, recorder, m)
	handler := NewHandler(service, formulas)

	return &SessionContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
