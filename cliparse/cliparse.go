package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	TokenSecret    string
	CheckoutURL    string
	CheckoutSecret string
	PublicBaseURL  string
	APIBaseURL     string
	UploadDir      string
	MaxUploadMB    int
	AdminEmail     string
	AdminPassword  string
	SeedFile       string
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first if present; real
// environment variables win over it.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is the normal case in production
	_ = godotenv.Load()

	fs := flag.NewFlagSet("paris-guide", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", "", "Public site URL used in redirects")
	fs.StringVar(&cfg.APIBaseURL, "api-url", "", "Public URL of this API, used for upload links")
	fs.StringVar(&cfg.UploadDir, "uploads", "", "Directory for uploaded images")
	fs.StringVar(&cfg.SeedFile, "seed", "", "YAML file with content to seed at startup")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "Session token secret (prefer env)")
	fs.StringVar(&cfg.CheckoutSecret, "checkout-secret", "", "Checkout webhook secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	cfg.PublicBaseURL = firstNonEmpty(cfg.PublicBaseURL, os.Getenv("PUBLIC_BASE_URL"), "http://localhost:3000")
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.APIBaseURL = firstNonEmpty(cfg.APIBaseURL, os.Getenv("API_BASE_URL"), "http://localhost:"+strconv.Itoa(cfg.Port))
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.UploadDir = firstNonEmpty(cfg.UploadDir, os.Getenv("UPLOAD_DIR"), "uploads")
	cfg.CheckoutURL = firstNonEmpty(os.Getenv("CHECKOUT_URL"), "https://checkout.example.com/pay")
	cfg.SeedFile = firstNonEmpty(cfg.SeedFile, os.Getenv("SEED_FILE"))

	cfg.MaxUploadMB = 5
	if mb := os.Getenv("MAX_UPLOAD_MB"); mb != "" {
		n, err := strconv.Atoi(mb)
		if err != nil || n <= 0 {
			return Config{}, errors.New("invalid MAX_UPLOAD_MB env variable")
		}
		cfg.MaxUploadMB = n
	}

	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	// Secrets - MUST be provided
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("TOKEN_SECRET required")
	}

	if cfg.CheckoutSecret == "" {
		cfg.CheckoutSecret = os.Getenv("CHECKOUT_SECRET")
	}
	if cfg.CheckoutSecret == "" {
		return Config{}, errors.New("CHECKOUT_SECRET required")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
