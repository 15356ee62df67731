package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Per-operation deadline applied to ledger commits and reads.
	OperationTimeout time.Duration

	// Outbox relay settings.
	AMQPURL            string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxExchangeName string
	OutboxRoutingKey   string

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	// Transactions at or above this amount show up in the staff
	// large-transaction report.
	LargeTransactionThreshold decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "corebank-backend")
	viper.SetDefault("OPERATION_TIMEOUT", "5s")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("OUTBOX_POLL_INTERVAL", "2s")
	viper.SetDefault("OUTBOX_BATCH_SIZE", 50)
	viper.SetDefault("OUTBOX_EXCHANGE_NAME", "corebank.events")
	viper.SetDefault("OUTBOX_ROUTING_KEY", "transfer.completed")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("OUTBOX_MAX_ATTEMPTS", 5)
	viper.SetDefault("LARGE_TRANSACTION_THRESHOLD", "10000.00")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTSecret = jwtSecret

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	opTimeoutStr := viper.GetString("OPERATION_TIMEOUT")
	opTimeout, err := time.ParseDuration(opTimeoutStr)
	if err != nil || opTimeout <= 0 {
		opTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for OPERATION_TIMEOUT ('%s'). Defaulting to %s.\n", opTimeoutStr, opTimeout.String())
	}
	cfg.OperationTimeout = opTimeout

	cfg.AMQPURL = viper.GetString("AMQP_URL")

	pollStr := viper.GetString("OUTBOX_POLL_INTERVAL")
	pollInterval, err := time.ParseDuration(pollStr)
	if err != nil || pollInterval <= 0 {
		pollInterval = 2 * time.Second
		log.Printf("Warning: Invalid value for OUTBOX_POLL_INTERVAL ('%s'). Defaulting to %s.\n", pollStr, pollInterval.String())
	}
	cfg.OutboxPollInterval = pollInterval

	cfg.OutboxBatchSize = viper.GetInt("OUTBOX_BATCH_SIZE")
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 50
	}
	cfg.OutboxMaxAttempts = viper.GetInt("OUTBOX_MAX_ATTEMPTS")
	if cfg.OutboxMaxAttempts <= 0 {
		cfg.OutboxMaxAttempts = 5
	}
	cfg.OutboxExchangeName = viper.GetString("OUTBOX_EXCHANGE_NAME")
	cfg.OutboxRoutingKey = viper.GetString("OUTBOX_ROUTING_KEY")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	thresholdStr := viper.GetString("LARGE_TRANSACTION_THRESHOLD")
	threshold, err := decimal.NewFromString(thresholdStr)
	if err != nil || threshold.IsNegative() {
		threshold = decimal.RequireFromString("10000.00")
		log.Printf("Warning: Invalid value for LARGE_TRANSACTION_THRESHOLD ('%s'). Defaulting to %s.\n", thresholdStr, threshold.String())
	}
	cfg.LargeTransactionThreshold = threshold

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	return cfg, nil
}
