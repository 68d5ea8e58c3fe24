package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingConfig is returned by Load when one or more required secrets
// are not present in the environment.
var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	Port        string
	CORSOrigins string

	// Completion API
	AIProvider        string
	AIModel           string
	AIBaseURL         string
	CompletionAPIKey  string
	CompletionTimeout time.Duration

	// Transactional email
	EmailAPIKey     string
	EmailAPIURL     string
	EmailFrom       string
	EmailSenderName string
	EmailConsole    bool

	// Hosted data service: Postgres endpoint plus the key that signs its
	// session tokens.
	DataServiceURL string
	DataServiceKey string
	TokenIssuer    string

	RedisAddr     string
	RedisPassword string

	ChromePath       string
	TemplateHosts    []string
	TemplateMaxBytes int64

	R2 R2Config
}

type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
}

func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.Bucket != ""
}

// requiredKeys must be set for the server to start.
var requiredKeys = []string{
	"COMPLETION_API_KEY",
	"EMAIL_API_KEY",
	"DATA_SERVICE_URL",
	"DATA_SERVICE_KEY",
}

// Load reads environment variables, optionally from a .env file if present.
// Every missing required key is reported in a single error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var missing []string
	for _, k := range requiredKeys {
		if strings.TrimSpace(os.Getenv(k)) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	cfg := Config{
		Port:        getEnv("PORT", "5000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		AIProvider:        getEnv("AI_PROVIDER", "openai"),
		AIModel:           os.Getenv("AI_MODEL"),
		AIBaseURL:         os.Getenv("AI_BASE_URL"),
		CompletionAPIKey:  os.Getenv("COMPLETION_API_KEY"),
		CompletionTimeout: time.Duration(getEnvInt("COMPLETION_TIMEOUT_SECONDS", 60)) * time.Second,

		EmailAPIKey:     os.Getenv("EMAIL_API_KEY"),
		EmailAPIURL:     getEnv("EMAIL_API_URL", "https://api.brevo.com/v3/smtp/email"),
		EmailFrom:       getEnv("EMAIL_FROM", "no-reply@resumabuilder.app"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "ResumaBuilder"),
		EmailConsole:    getEnvBool("EMAIL_CONSOLE", false),

		DataServiceURL: os.Getenv("DATA_SERVICE_URL"),
		DataServiceKey: os.Getenv("DATA_SERVICE_KEY"),
		TokenIssuer:    os.Getenv("TOKEN_ISSUER"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ChromePath:       os.Getenv("CHROME_PATH"),
		TemplateHosts:    splitList(os.Getenv("TEMPLATE_HOSTS")),
		TemplateMaxBytes: int64(getEnvInt("TEMPLATE_MAX_BYTES", 2<<20)),

		R2: R2Config{
			AccountID: os.Getenv("R2_ACCOUNT_ID"),
			AccessKey: os.Getenv("R2_ACCESS_KEY"),
			SecretKey: os.Getenv("R2_SECRET_KEY"),
			Bucket:    os.Getenv("R2_BUCKET"),
		},
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
