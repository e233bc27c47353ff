package formula

import (
	"math/rand/v2"

	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"gorm.io/gorm"
)

type FormulaContainer struct {
	Handler *Handler
	Service FormulaService
	Engine  *Engine
}

// NewFormulaContainer builds the engine with policy and, when rnd is not nil,
// a dedicated random source.
func NewFormulaContainer(db *gorm.DB, notes catalog.Repository, policy Policy, rnd *rand.Rand) *FormulaContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	var opts []EngineOption
	if rnd != nil {
		opts = append(opts, WithRand(rnd))
	}

	return &FormulaContainer{
		Handler: handler,
		Service: service,
		Engine:  NewEngine(notes, policy, opts...),
	}
}
