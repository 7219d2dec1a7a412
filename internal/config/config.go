package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendHuggingFace = "huggingface"
	BackendKServe      = "kserve"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Server      ServerConfig
	Logger      LoggerConfig
	Upload      UploadConfig
	Captioner   CaptionerConfig
	HuggingFace HuggingFaceConfig
	KServe      KServeConfig
	Feedback    FeedbackConfig
	Database    DatabaseConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type UploadConfig struct {
	MaxBytes     int64
	MaxDimension int
	MaxPixels    int
}

type CaptionerConfig struct {
	Backend string
	Timeout time.Duration
}

type HuggingFaceConfig struct {
	BaseURL   string
	Token     string
	BLIPModel string
	GITModel  string
	Timeout   time.Duration
}

type KServeConfig struct {
	InCluster      bool
	KubeConfigPath string
	DefaultNS      string
	BLIPService    string
	GITService     string
	Device         string
	Timeout        time.Duration
}

type FeedbackConfig struct {
	Store string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("UPLOAD_MAX_DIMENSION", 1024)
	v.SetDefault("UPLOAD_MAX_PIXELS", 89_478_485)
	v.SetDefault("CAPTIONER_BACKEND", BackendHuggingFace)
	v.SetDefault("CAPTIONER_TIMEOUT", "60s")
	v.SetDefault("CAPTIONER_DEVICE", "auto")
	v.SetDefault("HF_BASE_URL", "https://api-inference.huggingface.co")
	v.SetDefault("HF_TOKEN", "")
	v.SetDefault("HF_BLIP_MODEL", "Salesforce/blip-image-captioning-base")
	v.SetDefault("HF_GIT_MODEL", "microsoft/git-base")
	v.SetDefault("KSERVE_IN_CLUSTER", false)
	v.SetDefault("KSERVE_KUBECONFIG", "")
	v.SetDefault("KSERVE_NAMESPACE", "model-serving")
	v.SetDefault("KSERVE_BLIP_SERVICE", "blip-image-captioning-base")
	v.SetDefault("KSERVE_GIT_SERVICE", "git-base")
	v.SetDefault("FEEDBACK_STORE", StoreMemory)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "lens_to_language")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("RATE_LIMIT_PER_MIN", 30)
	v.SetDefault("RATE_LIMIT_BURST", 5)

	// Env
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("CAPTIONER_TIMEOUT"))
	if err != nil {
		timeout = 60 * time.Second
	}

	lifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Upload: UploadConfig{
			MaxBytes:     v.GetInt64("UPLOAD_MAX_BYTES"),
			MaxDimension: v.GetInt("UPLOAD_MAX_DIMENSION"),
			MaxPixels:    v.GetInt("UPLOAD_MAX_PIXELS"),
		},
		Captioner: CaptionerConfig{
			Backend: v.GetString("CAPTIONER_BACKEND"),
			Timeout: timeout,
		},
		HuggingFace: HuggingFaceConfig{
			BaseURL:   v.GetString("HF_BASE_URL"),
			Token:     v.GetString("HF_TOKEN"),
			BLIPModel: v.GetString("HF_BLIP_MODEL"),
			GITModel:  v.GetString("HF_GIT_MODEL"),
			Timeout:   timeout,
		},
		KServe: KServeConfig{
			InCluster:      v.GetBool("KSERVE_IN_CLUSTER"),
			KubeConfigPath: v.GetString("KSERVE_KUBECONFIG"),
			DefaultNS:      v.GetString("KSERVE_NAMESPACE"),
			BLIPService:    v.GetString("KSERVE_BLIP_SERVICE"),
			GITService:     v.GetString("KSERVE_GIT_SERVICE"),
			Device:         v.GetString("CAPTIONER_DEVICE"),
			Timeout:        timeout,
		},
		Feedback: FeedbackConfig{
			Store: v.GetString("FEEDBACK_STORE"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		RateLimit: RateLimitConfig{
			PerMinute: v.GetInt("RATE_LIMIT_PER_MIN"),
			Burst:     v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Captioner.Backend {
	case BackendHuggingFace, BackendKServe:
	default:
		return fmt.Errorf("CAPTIONER_BACKEND must be %q or %q, got %q", BackendHuggingFace, BackendKServe, c.Captioner.Backend)
	}
	switch c.Feedback.Store {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("FEEDBACK_STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Feedback.Store)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}
