package config

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	SupplierAddress string
	PublicBaseURL   string

	TokenSecret   string
	SessionSecret string
	LinkSecret    string
	WebhookSecret string
	EncryptionKey []byte

	SessionTTL time.Duration
	LinkTTL    time.Duration
	RevealTTL  time.Duration

	FulfillPollInterval time.Duration
	WorkerPoolSize      int
	ShutdownTimeout     time.Duration
	MaxOrdersBatch      int
}

const (
	defaultRunAddress          = ":8080"
	defaultPublicBaseURL       = "http://localhost:8080"
	defaultTokenSecret         = "change-me-in-production"
	defaultSessionTTL          = 72 * time.Hour
	defaultLinkTTL             = 15 * time.Minute
	defaultRevealTTL           = 15 * time.Minute
	defaultFulfillPollInterval = 3 * time.Second
	defaultWorkerPoolSize      = 4
	defaultShutdownTimeout     = 10 * time.Second
	defaultMaxOrdersBatch      = 32
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		SupplierAddress:     getString(lookup, "SUPPLIER_ADDRESS", ""),
		PublicBaseURL:       getString(lookup, "PUBLIC_BASE_URL", defaultPublicBaseURL),
		TokenSecret:         getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		SessionSecret:       getString(lookup, "SESSION_SECRET", ""),
		LinkSecret:          getString(lookup, "LINK_SECRET", ""),
		WebhookSecret:       getString(lookup, "WEBHOOK_SECRET", ""),
		SessionTTL:          getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		LinkTTL:             getDuration(lookup, "LINK_TTL", defaultLinkTTL),
		RevealTTL:           getDuration(lookup, "REVEAL_TTL", defaultRevealTTL),
		FulfillPollInterval: getDuration(lookup, "FULFILL_POLL_INTERVAL", defaultFulfillPollInterval),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxOrdersBatch:      getInt(lookup, "FULFILL_BATCH_SIZE", defaultMaxOrdersBatch),
	}

	encryptionKeyHex := getString(lookup, "ENCRYPTION_KEY", "")

	fs := flag.NewFlagSet("bitloot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.FulfillPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.SupplierAddress, "s", cfg.SupplierAddress, "Key supplier base URL")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", cfg.PublicBaseURL, "Base URL used in signed download links")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing auth tokens")
	fs.StringVar(&encryptionKeyHex, "encryption-key", encryptionKeyHex, "Hex encoded 32-byte key for sealing credentials")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent fulfillment workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between fulfillment polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxOrdersBatch, "poll-batch", cfg.MaxOrdersBatch, "Maximum orders per polling batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.FulfillPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = string(content)
	}

	if keyFile, ok := lookup("ENCRYPTION_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read encryption key file: %w", err)
		}
		encryptionKeyHex = string(content)
	}

	// Secondary secrets default to the token secret so a minimal deployment
	// needs a single secret value.
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.TokenSecret
	}
	if cfg.LinkSecret == "" {
		cfg.LinkSecret = cfg.TokenSecret
	}
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.TokenSecret
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.FulfillPollInterval <= 0 {
		cfg.FulfillPollInterval = defaultFulfillPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.SupplierAddress == "" {
		return nil, fmt.Errorf("supplier address must be provided")
	}

	if encryptionKeyHex == "" {
		return nil, fmt.Errorf("encryption key must be provided")
	}
	cfg.EncryptionKey, err = hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(cfg.EncryptionKey) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(cfg.EncryptionKey))
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
