// Package container wires settings, storage and feature packages into one
// object shared by the HTTP server, the Lambda handler and the CLI.
package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/scent-quiz/internal/analytics"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/gateway"
	"github.com/saulo-duarte/scent-quiz/internal/metrics"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
	"github.com/saulo-duarte/scent-quiz/internal/router"
	"github.com/saulo-duarte/scent-quiz/internal/session"
	"github.com/saulo-duarte/scent-quiz/internal/suggestion"
	"github.com/saulo-duarte/scent-quiz/internal/user"
	"github.com/saulo-duarte/scent-quiz/internal/validation"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Container struct {
	Settings *config.Settings
	DB       *gorm.DB
	Gateway  *gateway.Gateway
	Metrics  *metrics.Metrics

	CatalogContainer    *catalog.Container
	QuizContainer       *quiz.QuizContainer
	FormulaContainer    *formula.FormulaContainer
	AnalyticsContainer  *analytics.AnalyticsContainer
	UserContainer       *user.UserContainer
	SessionContainer    *session.SessionContainer
	SuggestionContainer *suggestion.SuggestionContainer

	redis *redis.Client
}

// Load reads settings from path (may be empty) and builds the container.
func Load(ctx context.Context, path string) (*Container, error) {
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(ctx, settings)
}

func New(ctx context.Context, settings *config.Settings) (*Container, error) {
	if err := config.InitLogger(settings.Log); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	if settings.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	auth.Init(settings.Auth.JWTSecret)

	policy, err := formula.ParsePolicy(settings.Quiz.FormulaPolicy)
	if err != nil {
		return nil, err
	}

	db, err := config.Connect(ctx, settings.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Settings: settings,
		DB:       db,
		Gateway:  gateway.New(db),
		Metrics:  metrics.New(nil),
	}

	states, err := c.stateStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	v := validation.New()

	c.CatalogContainer = catalog.NewContainer(db)
	c.QuizContainer = quiz.NewQuizContainer(db, c.CatalogContainer.Repo, v)
	c.FormulaContainer = formula.NewFormulaContainer(db, c.CatalogContainer.Repo, policy, nil)
	c.AnalyticsContainer = analytics.NewAnalyticsContainer(db, settings.Quiz.CompletionTimeSeconds)
	c.UserContainer = user.NewUserContainer(db, c.Gateway, v, settings.Auth)
	c.SessionContainer = session.NewSessionContainer(
		db,
		c.Gateway,
		states,
		c.FormulaContainer.Engine,
		c.AnalyticsContainer.Recorder,
		c.FormulaContainer.Service,
		c.Metrics,
	)
	c.SuggestionContainer = suggestion.NewSuggestionContainer(db)

	config.WithContext(ctx).WithFields(logrus.Fields{
		"policy": policy,
		"driver": settings.Database.Driver,
		"redis":  c.redis != nil,
	}).Info("Container ready")

	return c, nil
}

// stateStore keeps runner snapshots in Redis when configured, in memory
// otherwise.
func (c *Container) stateStore(ctx context.Context) (session.StateStore, error) {
	s := c.Settings.Redis
	if s.Addr == "" {
		return session.NewMemoryStateStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     s.Addr,
		Password: s.Password,
		DB:       s.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", s.Addr, err)
	}
	c.redis = client
	return session.NewRedisStateStore(client, s.KeyPrefix, c.Settings.Quiz.SnapshotTTL), nil
}

func (c *Container) RouterConfig() router.RouterConfig {
	return router.RouterConfig{
		CatalogHandler:    c.CatalogContainer.Handler,
		QuizHandler:       c.QuizContainer.Handler,
		FormulaHandler:    c.FormulaContainer.Handler,
		AnalyticsHandler:  c.AnalyticsContainer.Handler,
		UserHandler:       c.UserContainer.Handler,
		SessionHandler:    c.SessionContainer.Handler,
		SuggestionHandler: c.SuggestionContainer.Handler,
		Metrics:           c.Metrics,
		DB:                c.DB,
	}
}

// Close releases the database pool and the Redis client.
func (c *Container) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		} else {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
