// Package config loads settings and owns the process-level plumbing shared by
// every feature package: logging, database connection and JSON responses.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024

type Settings struct {
	Server   ServerSettings   `koanf:"server"`
	Database DatabaseSettings `koanf:"database"`
	Auth     AuthSettings     `koanf:"auth"`
	Quiz     QuizSettings     `koanf:"quiz"`
	Redis    RedisSettings    `koanf:"redis"`
	Log      LogSettings      `koanf:"log"`
}

type ServerSettings struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseSettings struct {
	// Driver is "postgres" or "sqlite".
	Driver          string        `koanf:"driver"`
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type AuthSettings struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
	// AdminEmails is a comma separated list of users issued admin tokens.
	AdminEmails string `koanf:"admin_emails"`
}

// IsAdmin reports whether email is listed in AdminEmails.
func (a AuthSettings) IsAdmin(email string) bool {
	for _, e := range strings.Split(a.AdminEmails, ",") {
		if e = strings.TrimSpace(e); e != "" && strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

type QuizSettings struct {
	FormulaPolicy         string        `koanf:"formula_policy"`
	CompletionTimeSeconds int           `koanf:"completion_time_seconds"`
	SnapshotTTL           time.Duration `koanf:"snapshot_ttl"`
}

// RedisSettings is optional; an empty Addr keeps runner snapshots in memory.
type RedisSettings struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

type LogSettings struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

var sections = map[string]bool{
	"server":   true,
	"database": true,
	"auth":     true,
	"quiz":     true,
	"redis":    true,
	"log":      true,
}

// Load reads settings from an optional YAML file and then from the
// environment. Precedence, highest first: environment, file, defaults.
//
// Environment keys split on the first underscore only:
//
//	DATABASE_DSN          -> database.dsn
//	QUIZ_FORMULA_POLICY   -> quiz.formula_policy
//	DATABASE_MAX_OPEN_CONNS -> database.max_open_conns
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&s)

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &s, nil
}

// envKey maps SECTION_FIELD_NAME to section.field_name. Variables outside the
// known sections are ignored.
func envKey(s string) string {
	parts := strings.SplitN(strings.ToLower(s), "_", 2)
	if len(parts) != 2 || !sections[parts[0]] {
		return ""
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(s *Settings) {
	if s.Server.Port == 0 {
		s.Server.Port = 8080
	}
	if s.Server.ShutdownTimeout == 0 {
		s.Server.ShutdownTimeout = 10 * time.Second
	}

	if s.Database.Driver == "" {
		s.Database.Driver = "sqlite"
	}
	if s.Database.DSN == "" && s.Database.Driver == "sqlite" {
		s.Database.DSN = "scentquiz.db"
	}
	if s.Database.MaxOpenConns == 0 {
		s.Database.MaxOpenConns = 20
	}
	if s.Database.MaxIdleConns == 0 {
		s.Database.MaxIdleConns = 1
	}
	if s.Database.ConnMaxLifetime == 0 {
		s.Database.ConnMaxLifetime = 30 * time.Minute
	}

	if s.Auth.TokenTTL == 0 {
		s.Auth.TokenTTL = 24 * time.Hour
	}

	if s.Quiz.FormulaPolicy == "" {
		s.Quiz.FormulaPolicy = "FIRST_IN_CATALOG"
	}
	if s.Quiz.CompletionTimeSeconds == 0 {
		s.Quiz.CompletionTimeSeconds = 120
	}
	if s.Quiz.SnapshotTTL == 0 {
		s.Quiz.SnapshotTTL = 24 * time.Hour
	}

	if s.Redis.KeyPrefix == "" {
		s.Redis.KeyPrefix = "scentquiz:session:"
	}

	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if s.Log.Format == "" {
		s.Log.Format = "text"
	}
}

// RequireSharedState fails when in-progress sessions would live in process
// memory. Deployments that spread requests over several instances, like
// Lambda, need Redis.
func (s *Settings) RequireSharedState() error {
	if strings.TrimSpace(s.Redis.Addr) == "" {
		return fmt.Errorf("redis.addr is required: in-progress sessions cannot be kept in memory across instances")
	}
	return nil
}

func (s *Settings) Validate() error {
	switch s.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", s.Database.Driver)
	}
	if s.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", s.Server.Port)
	}
	switch strings.ToUpper(s.Quiz.FormulaPolicy) {
	case "FIRST_IN_CATALOG", "UNIFORM_RANDOM", "MOST_FREQUENT_NOTE":
	default:
		return fmt.Errorf("unsupported quiz.formula_policy %q", s.Quiz.FormulaPolicy)
	}
	if s.Quiz.CompletionTimeSeconds < 0 {
		return fmt.Errorf("quiz.completion_time_seconds must not be negative")
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", s.Log.Format)
	}
	return nil
}
