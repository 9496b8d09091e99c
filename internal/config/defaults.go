package config

import "time"

// Default value constants.  The evaluation thresholds mirror the calibrated
// production values; they are starting points, not verified ground truth.
const (
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultDBHost         = "localhost"
	DefaultDBPort         = 5432
	DefaultDBName         = "talentscreen"
	DefaultDBUser         = "talentscreen"
	DefaultDBMaxConns     = 25
	DefaultMigrationsPath = "migrations"

	DefaultRedisAddr   = "localhost:6379"
	DefaultKeyPrefix   = "talentscreen:"
	DefaultSnapshotTTL = 5 * time.Minute
	DefaultLockTTL     = 2 * time.Minute

	DefaultKafkaBroker  = "localhost:9092"
	DefaultGraderModel  = "gpt-4o-mini"
	DefaultGraderTimeout = 20 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultTextThreshold = 70.0
	DefaultCodeThreshold = 80.0
	DefaultMinTextLength = 20
	DefaultMinCodeLength = 30
	DefaultMaxMatches    = 5

	DefaultDuplicateEmailMedium    = 1
	DefaultDuplicateEmailHigh      = 3
	DefaultFastCompletionQuestions = 10
	DefaultFastCompletionWindow    = 5 * time.Minute
	DefaultRapidAnswerFraction     = 0.2
	DefaultRapidAnswerRatio        = 0.5
	DefaultMinMCQForPattern        = 5
	DefaultSkewedOptionRatio       = 0.6
	DefaultAlternatingRatio        = 0.7
	DefaultCollisionMinPeers       = 5
	DefaultCollisionMinQuestions   = 3
	DefaultWeightHigh              = 30
	DefaultWeightMedium            = 15
	DefaultWeightLow               = 5
	DefaultBotRiskThreshold        = 50
	DefaultConfidencePerFlag       = 5
)

// ApplyDefaults fills every zero-value field in cfg with the platform
// default.  Fields already set by the caller are left unchanged so explicit
// configuration always wins.  It must run after unmarshalling and before
// Validate so optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ───────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// ── Database ─────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = DefaultMigrationsPath
	}

	// ── Redis ────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.Redis.SnapshotTTL == 0 {
		cfg.Redis.SnapshotTTL = DefaultSnapshotTTL
	}
	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = DefaultLockTTL
	}

	// ── Kafka ────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}

	// ── Grader ───────────────────────────────────────────────────────────
	if cfg.Grader.Model == "" {
		cfg.Grader.Model = DefaultGraderModel
	}
	if cfg.Grader.Timeout == 0 {
		cfg.Grader.Timeout = DefaultGraderTimeout
	}

	// ── Log ──────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Similarity ───────────────────────────────────────────────────────
	sim := &cfg.Evaluation.Similarity
	if sim.TextThreshold == 0 {
		sim.TextThreshold = DefaultTextThreshold
	}
	if sim.CodeThreshold == 0 {
		sim.CodeThreshold = DefaultCodeThreshold
	}
	if sim.MinTextLength == 0 {
		sim.MinTextLength = DefaultMinTextLength
	}
	if sim.MinCodeLength == 0 {
		sim.MinCodeLength = DefaultMinCodeLength
	}
	if sim.MaxMatches == 0 {
		sim.MaxMatches = DefaultMaxMatches
	}

	// ── Integrity ────────────────────────────────────────────────────────
	integ := &cfg.Evaluation.Integrity
	if integ.DuplicateEmailMedium == 0 {
		integ.DuplicateEmailMedium = DefaultDuplicateEmailMedium
	}
	if integ.DuplicateEmailHigh == 0 {
		integ.DuplicateEmailHigh = DefaultDuplicateEmailHigh
	}
	if integ.FastCompletionQuestions == 0 {
		integ.FastCompletionQuestions = DefaultFastCompletionQuestions
	}
	if integ.FastCompletionWindow == 0 {
		integ.FastCompletionWindow = DefaultFastCompletionWindow
	}
	if integ.RapidAnswerFraction == 0 {
		integ.RapidAnswerFraction = DefaultRapidAnswerFraction
	}
	if integ.RapidAnswerRatio == 0 {
		integ.RapidAnswerRatio = DefaultRapidAnswerRatio
	}
	if integ.MinMCQForPattern == 0 {
		integ.MinMCQForPattern = DefaultMinMCQForPattern
	}
	if integ.SkewedOptionRatio == 0 {
		integ.SkewedOptionRatio = DefaultSkewedOptionRatio
	}
	if integ.AlternatingRatio == 0 {
		integ.AlternatingRatio = DefaultAlternatingRatio
	}
	if integ.CollisionMinPeers == 0 {
		integ.CollisionMinPeers = DefaultCollisionMinPeers
	}
	if integ.CollisionMinQuestions == 0 {
		integ.CollisionMinQuestions = DefaultCollisionMinQuestions
	}
	if integ.WeightHigh == 0 {
		integ.WeightHigh = DefaultWeightHigh
	}
	if integ.WeightMedium == 0 {
		integ.WeightMedium = DefaultWeightMedium
	}
	if integ.WeightLow == 0 {
		integ.WeightLow = DefaultWeightLow
	}
	if integ.BotRiskThreshold == 0 {
		integ.BotRiskThreshold = DefaultBotRiskThreshold
	}
	if integ.ConfidencePerFlag == 0 {
		integ.ConfidencePerFlag = DefaultConfidencePerFlag
	}
}
