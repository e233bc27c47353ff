package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/saulo-duarte/scent-quiz/internal/analytics"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/metrics"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
	"github.com/saulo-duarte/scent-quiz/internal/session"
	"github.com/saulo-duarte/scent-quiz/internal/suggestion"
	"github.com/saulo-duarte/scent-quiz/internal/user"
)

type RouterConfig struct {
	CatalogHandler    *catalog.Handler
	QuizHandler       *quiz.Handler
	FormulaHandler    *formula.Handler
	AnalyticsHandler  *analytics.Handler
	UserHandler       *user.Handler
	SessionHandler    *session.Handler
	SuggestionHandler *suggestion.Handler
	Metrics           *metrics.Metrics
	// DB is pinged by /healthz when set.
	DB *gorm.DB
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cfg.Metrics.Middleware)

	r.Get("/healthz", health(cfg.DB))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/entry", cfg.UserHandler.Enter)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/notes", catalog.Routes(cfg.CatalogHandler))
		r.Mount("/questions", quiz.Routes(cfg.QuizHandler))
		r.Mount("/sessions", session.Routes(cfg.SessionHandler))
		r.Mount("/formulas", formula.Routes(cfg.FormulaHandler))
		r.Mount("/analytics", analytics.Routes(cfg.AnalyticsHandler))
		r.Mount("/suggestions", suggestion.Routes(cfg.SuggestionHandler))
		r.Mount("/users", user.Routes(cfg.UserHandler))
	})
	return r
}

func health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(r.Context())
			}
			if err != nil {
				config.WithContext(r.Context()).WithError(err).Error("Health check failed")
				config.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
