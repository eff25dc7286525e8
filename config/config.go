package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Write policies for the booking dual-sink pipeline (see BookingConfig)
const (
	// WritePolicyTolerant notifies first and persists best-effort afterwards;
	// a missing or failing store never blocks the notification path
	WritePolicyTolerant = "tolerant"
	// WritePolicyStrict requires storage, persists before notifying, and
	// writes delivery metadata back onto the stored row
	WritePolicyStrict = "strict"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Formspree     FormspreeConfig
	Booking       BookingConfig
	Discount      DiscountConfig
	Auth          AuthConfig
	Gallery       GalleryConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// DatabaseConfig points at the Supabase-hosted Postgres. URL may be empty:
// the booking pipeline then runs notify-only and the discount endpoint
// reports misconfiguration.
type DatabaseConfig struct {
	URL            string
	MaxConns       int32
	MinConns       int32
	DiscountsTable string
	BookingsTable  string
}

func (d DatabaseConfig) Configured() bool {
	return d.URL != ""
}

type FormspreeConfig struct {
	BookingEndpoint string
}

type BookingConfig struct {
	WritePolicy      string
	RemarksMaxLength int
}

// DiscountConfig bounds the issued percentage (inclusive on both ends)
type DiscountConfig struct {
	MinPercent int
	MaxPercent int
}

type AuthConfig struct {
	// InternalAPIToken protects the owner-facing lead listings; when empty
	// those routes are not registered
	InternalAPIToken string
}

type GalleryConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	PublicBaseURL   string
	Region          string
	Prefix          string
	CacheTTLSeconds int
}

func (g GalleryConfig) Configured() bool {
	return g.AccessKeyID != "" && g.SecretAccessKey != "" && g.BucketName != ""
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceVersion   string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://crystalautodetailing.com")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://crystalautodetailing.com,https://www.crystalautodetailing.com")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("SUPABASE_DISCOUNTS_TABLE", "discounts")
	v.SetDefault("SUPABASE_BOOKINGS_TABLE", "booking_appointments")
	v.SetDefault("FORMSPREE_BOOKING_ENDPOINT", "https://formspree.io/f/mkoonadg")
	v.SetDefault("BOOKING_WRITE_POLICY", WritePolicyTolerant)
	v.SetDefault("BOOKING_REMARKS_MAX_LENGTH", 1000)
	v.SetDefault("DISCOUNT_MIN_PERCENT", 21)
	v.SetDefault("DISCOUNT_MAX_PERCENT", 31)
	v.SetDefault("GALLERY_BUCKET_REGION", "us-east-1")
	v.SetDefault("GALLERY_PREFIX", "gallery/")
	v.SetDefault("GALLERY_CACHE_TTL", 600)
	v.SetDefault("O11Y_SERVICE_NAME", "crystal-detailing-api")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "crystal-detailing-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: allowedOrigins,
		},
		Database: DatabaseConfig{
			URL:            v.GetString("DATABASE_URL"),
			MaxConns:       v.GetInt32("DB_MAX_CONNS"),
			MinConns:       v.GetInt32("DB_MIN_CONNS"),
			DiscountsTable: v.GetString("SUPABASE_DISCOUNTS_TABLE"),
			BookingsTable:  v.GetString("SUPABASE_BOOKINGS_TABLE"),
		},
		Formspree: FormspreeConfig{
			BookingEndpoint: v.GetString("FORMSPREE_BOOKING_ENDPOINT"),
		},
		Booking: BookingConfig{
			WritePolicy:      v.GetString("BOOKING_WRITE_POLICY"),
			RemarksMaxLength: v.GetInt("BOOKING_REMARKS_MAX_LENGTH"),
		},
		Discount: DiscountConfig{
			MinPercent: v.GetInt("DISCOUNT_MIN_PERCENT"),
			MaxPercent: v.GetInt("DISCOUNT_MAX_PERCENT"),
		},
		Auth: AuthConfig{
			InternalAPIToken: v.GetString("INTERNAL_API_AUTH_TOKEN"),
		},
		Gallery: GalleryConfig{
			AccessKeyID:     v.GetString("GALLERY_BUCKET_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("GALLERY_BUCKET_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("GALLERY_BUCKET_NAME"),
			Endpoint:        v.GetString("GALLERY_BUCKET_ENDPOINT"),
			PublicBaseURL:   v.GetString("GALLERY_PUBLIC_BASE_URL"),
			Region:          v.GetString("GALLERY_BUCKET_REGION"),
			Prefix:          v.GetString("GALLERY_PREFIX"),
			CacheTTLSeconds: v.GetInt("GALLERY_CACHE_TTL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Formspree.BookingEndpoint == "" {
		return fmt.Errorf("FORMSPREE_BOOKING_ENDPOINT is required")
	}

	switch c.Booking.WritePolicy {
	case WritePolicyTolerant, WritePolicyStrict:
	default:
		return fmt.Errorf("BOOKING_WRITE_POLICY must be %q or %q", WritePolicyTolerant, WritePolicyStrict)
	}

	// Strict mode treats a missing store as fatal; refuse to boot without one
	if c.Booking.WritePolicy == WritePolicyStrict && !c.Database.Configured() {
		return fmt.Errorf("DATABASE_URL is required when BOOKING_WRITE_POLICY is strict")
	}

	if c.Booking.RemarksMaxLength <= 0 {
		return fmt.Errorf("BOOKING_REMARKS_MAX_LENGTH must be positive")
	}

	if c.Discount.MinPercent <= 0 || c.Discount.MaxPercent < c.Discount.MinPercent {
		return fmt.Errorf("invalid discount range [%d, %d]", c.Discount.MinPercent, c.Discount.MaxPercent)
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
