// Package config defines all configuration structures for the TalentScreen
// platform.  No I/O or parsing logic lives here, only plain data types,
// defaults, and validation.  Loading is handled by loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection and cache parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`

	// SnapshotTTL bounds how long a cohort snapshot stays cached.
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`

	// LockTTL bounds the per-submission evaluation lock.
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// KafkaConfig holds the event producer parameters.  When Enabled is false
// the pipeline skips event publication entirely.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// GraderConfig holds the optional remote grader parameters.  The grader is
// advisory: any failure falls back to heuristic scoring.
type GraderConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SimilarityConfig carries the plagiarism detector tunables.
type SimilarityConfig struct {
	// TextThreshold is the flagging threshold for free-text answers (0-100).
	TextThreshold float64 `mapstructure:"text_threshold"`

	// CodeThreshold is the flagging threshold for code answers (0-100).
	CodeThreshold float64 `mapstructure:"code_threshold"`

	// MinTextLength / MinCodeLength gate comparison: shorter content is
	// skipped outright to avoid false positives on trivial answers.
	MinTextLength int `mapstructure:"min_text_length"`
	MinCodeLength int `mapstructure:"min_code_length"`

	// MaxMatches bounds the ranked peer list kept per result.
	MaxMatches int `mapstructure:"max_matches"`

	// MaxCohort bounds pairwise comparison to the most recent N peers;
	// zero means unbounded.
	MaxCohort int `mapstructure:"max_cohort"`
}

// IntegrityConfig carries every integrity-heuristic threshold.  These are
// calibrated ad hoc, not derived from a false-positive-rate analysis, so
// operators must be able to retune them per assessment difficulty and
// cohort size without a rebuild.
type IntegrityConfig struct {
	DuplicateEmailMedium int `mapstructure:"duplicate_email_medium"`
	DuplicateEmailHigh   int `mapstructure:"duplicate_email_high"`

	FastCompletionQuestions int           `mapstructure:"fast_completion_questions"`
	FastCompletionWindow    time.Duration `mapstructure:"fast_completion_window"`
	RapidAnswerFraction     float64       `mapstructure:"rapid_answer_fraction"`
	RapidAnswerRatio        float64       `mapstructure:"rapid_answer_ratio"`

	MinMCQForPattern  int     `mapstructure:"min_mcq_for_pattern"`
	SkewedOptionRatio float64 `mapstructure:"skewed_option_ratio"`
	AlternatingRatio  float64 `mapstructure:"alternating_ratio"`

	CollisionMinPeers     int `mapstructure:"collision_min_peers"`
	CollisionMinQuestions int `mapstructure:"collision_min_questions"`

	WeightHigh        int `mapstructure:"weight_high"`
	WeightMedium      int `mapstructure:"weight_medium"`
	WeightLow         int `mapstructure:"weight_low"`
	BotRiskThreshold  int `mapstructure:"bot_risk_threshold"`
	ConfidencePerFlag int `mapstructure:"confidence_per_flag"`
}

// EvaluationConfig groups the tunables of the evaluation components.
type EvaluationConfig struct {
	Similarity SimilarityConfig `mapstructure:"similarity"`
	Integrity  IntegrityConfig  `mapstructure:"integrity"`
}

// Config is the root configuration tree.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Grader     GraderConfig     `mapstructure:"grader"`
	Log        logging.Config   `mapstructure:"log"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
}

// Validate checks cross-field consistency after defaults were applied.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host must not be empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must not be empty when kafka is enabled")
	}
	if c.Grader.Enabled && c.Grader.APIKey == "" {
		return fmt.Errorf("grader.api_key must be set when the remote grader is enabled")
	}

	sim := c.Evaluation.Similarity
	if sim.TextThreshold < 0 || sim.TextThreshold > 100 {
		return fmt.Errorf("evaluation.similarity.text_threshold %v out of range [0,100]", sim.TextThreshold)
	}
	if sim.CodeThreshold < 0 || sim.CodeThreshold > 100 {
		return fmt.Errorf("evaluation.similarity.code_threshold %v out of range [0,100]", sim.CodeThreshold)
	}

	integ := c.Evaluation.Integrity
	if integ.DuplicateEmailHigh < integ.DuplicateEmailMedium {
		return fmt.Errorf("evaluation.integrity: duplicate_email_high must be >= duplicate_email_medium")
	}
	if integ.SkewedOptionRatio <= 0 || integ.SkewedOptionRatio > 1 {
		return fmt.Errorf("evaluation.integrity.skewed_option_ratio %v out of range (0,1]", integ.SkewedOptionRatio)
	}
	if integ.AlternatingRatio <= 0 || integ.AlternatingRatio > 1 {
		return fmt.Errorf("evaluation.integrity.alternating_ratio %v out of range (0,1]", integ.AlternatingRatio)
	}
	if integ.BotRiskThreshold <= 0 || integ.BotRiskThreshold > 100 {
		return fmt.Errorf("evaluation.integrity.bot_risk_threshold %d out of range (0,100]", integ.BotRiskThreshold)
	}
	return nil
}
