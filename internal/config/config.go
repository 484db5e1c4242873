package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinSecretLength is the minimum accepted length of JWT_SECRET in bytes.
const MinSecretLength = 32

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds document store settings used when STORE_DRIVER=mongo.
type MongoConfig struct {
	URI      string
	Database string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds token and password hashing settings.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	// RateLimitRPS and RateLimitBurst throttle /api/auth/* per client IP.
	RateLimitRPS   float64
	RateLimitBurst int
	// RedisURL enables a shared per-minute window across instances when set.
	RedisURL       string
	RedisWindowMax int
}

// PinningConfig selects and configures the pinning provider.
type PinningConfig struct {
	Provider   string // none | pinata | kubo | minio
	PinataJWT  string
	PinataURL  string
	KuboURL    string
	GatewayURL string
	Timeout    time.Duration
}

// ChainConfig holds the JSON-RPC endpoint, signer and contract settings.
type ChainConfig struct {
	RPCURL          string
	ChainID         int64
	ContractAddress string
	PrivateKey      string
	// HexEncodeFiles reproduces the legacy file digest (hash of the hex encoding).
	HexEncodeFiles bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Environment string
	LogLevel    string
	StoreDriver string // postgres | mongo
	// ControllerCacheSize bounds the number of per-user verification controllers kept in memory.
	ControllerCacheSize int
	MaxUploadBytes      int
	Database            DatabaseConfig
	Mongo               MongoConfig
	MinIO               MinIOConfig
	Auth                AuthConfig
	Pinning             PinningConfig
	Chain               ChainConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:             getEnv("APP_HOST", "localhost:8080"),
		Port:                getEnv("PORT", "5000"),
		Environment:         getEnv("APP_ENV", "production"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		ControllerCacheSize: getEnvInt("VERIFY_CONTROLLER_CACHE_SIZE", 1024),
		MaxUploadBytes:      getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "contentproof"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenTTL:       getEnvDuration("JWT_TTL", time.Hour),
			BcryptCost:     getEnvInt("BCRYPT_COST", 10),
			RateLimitRPS:   getEnvFloat("AUTH_RATE_LIMIT_RPS", 5),
			RateLimitBurst: getEnvInt("AUTH_RATE_LIMIT_BURST", 10),
			RedisURL:       getEnv("REDIS_URL", ""),
			RedisWindowMax: getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 120),
		},
		Pinning: PinningConfig{
			Provider:   strings.ToLower(getEnv("PIN_PROVIDER", "none")),
			PinataJWT:  getEnv("PINATA_JWT", ""),
			PinataURL:  getEnv("PINATA_API_URL", "https://api.pinata.cloud"),
			KuboURL:    getEnv("KUBO_API_URL", "http://127.0.0.1:5001"),
			GatewayURL: getEnv("PIN_GATEWAY_URL", "https://ipfs.io/ipfs/"),
			Timeout:    getEnvDuration("PIN_TIMEOUT", 60*time.Second),
		},
		Chain: ChainConfig{
			RPCURL:          getEnv("CHAIN_RPC_URL", ""),
			ChainID:         int64(getEnvInt("CHAIN_ID", 11155111)),
			ContractAddress: getEnv("CHAIN_CONTRACT_ADDRESS", ""),
			PrivateKey:      getEnv("CHAIN_PRIVATE_KEY", ""),
			HexEncodeFiles:  getEnvBool("DIGEST_HEX_ENCODE_FILES", false),
		},
	}
}

// Validate reports configuration that must stop the process at startup.
// Chain settings are not validated here: a missing wallet degrades to a status message.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.Auth.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}

	switch c.StoreDriver {
	case "postgres":
	case "mongo":
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORE_DRIVER=mongo"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.Pinning.Provider {
	case "none", "kubo", "minio":
	case "pinata":
		if c.Pinning.PinataJWT == "" {
			errs = append(errs, errors.New("PINATA_JWT is required when PIN_PROVIDER=pinata"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported PIN_PROVIDER %q", c.Pinning.Provider))
	}
	return errors.Join(errs...)
}

// IsDev reports whether console-friendly logging should be used.
func (c *AppConfig) IsDev() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
