package app

import (
	"time"

	"github.com/yungbote/edusmart-backend/internal/data/db"
	"github.com/yungbote/edusmart-backend/internal/http/middleware"
	"github.com/yungbote/edusmart-backend/internal/platform/envutil"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	LogMode     string
	Port        string
	Environment string

	DB db.Config

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	PathGenLLMTimeout time.Duration
	TutorLLMTimeout   time.Duration
	AIDailyCallLimit  int

	RedisURL string

	// TokenCleanupInterval is how often expired sessions are purged. Zero
	// disables the job.
	TokenCleanupInterval time.Duration

	CORSOrigins []string

	// TraceServiceName is empty unless OTEL_ENABLED is set.
	TraceServiceName string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "edusmart"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "edusmart.db"),
		},
		JWTSecretKey:      envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:    envutil.Seconds("ACCESS_TOKEN_TTL", 3600),
		RefreshTokenTTL:   envutil.Seconds("REFRESH_TOKEN_TTL", 86400),
		PathGenLLMTimeout: envutil.Seconds("PATHGEN_LLM_TIMEOUT_SECONDS", 30),
		TutorLLMTimeout:   envutil.Seconds("TUTOR_LLM_TIMEOUT_SECONDS", 20),
		AIDailyCallLimit:  envutil.Int("AI_DAILY_CALL_LIMIT", 50),
		RedisURL:          envutil.String("REDIS_URL", ""),
		CORSOrigins:       envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins),
	}
	if mins := envutil.Int("TOKEN_CLEANUP_INTERVAL_MINUTES", 60); mins > 0 {
		cfg.TokenCleanupInterval = time.Duration(mins) * time.Minute
	}
	if envutil.Bool("OTEL_ENABLED", false) {
		cfg.TraceServiceName = envutil.String("OTEL_SERVICE_NAME", "edusmart")
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set, using the development default")
	}
	return cfg
}
