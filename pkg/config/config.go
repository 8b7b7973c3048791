package config

import (
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

type Config struct {
	// Port Settings
	ServerAddr string `json:"serverAddr"` // The address the server endpoint binds to.
	// PublicURL is the base URL of the client application, used to build
	// /etapa/{token} and /assinar/{token} links.
	PublicURL string `json:"publicURL"`
	TimeZone  string `json:"timeZone"`

	Auth struct {
		AccessTokenSecret     string `json:"accessTokenSecret"`
		AccessTokenExpiryHour int    `json:"accessTokenExpiryHour"`
		BootstrapAdmin        struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			FullName string `json:"fullName"`
		} `json:"bootstrapAdmin"`
	} `json:"auth"`

	Database struct {
		Driver     string `json:"driver"` // postgres | sqlite
		SQLitePath string `json:"sqlitePath"`
		Postgres   struct {
			Host     string `json:"host"`
			Port     string `json:"port"`
			DBName   string `json:"dbname"`
			User     string `json:"user"`
			Password string `json:"password"`
			SSLMode  string `json:"sslmode"`
			TimeZone string `json:"TimeZone"`
		} `json:"postgres"`
	} `json:"database"`

	Redis struct {
		Addr     string `json:"addr"` // empty disables rate limiting
		Password string `json:"password"`
		DB       int    `json:"db"`
		// Requests allowed per client IP and window on the public token endpoints.
		PublicRateLimit int `json:"publicRateLimit"`
		WindowSeconds   int `json:"windowSeconds"`
	} `json:"redis"`

	Storage struct {
		Driver           string `json:"driver"` // local | supabase
		LocalDir         string `json:"localDir"`
		PublicBaseURL    string `json:"publicBaseURL"`
		SupabaseURL      string `json:"supabaseURL"`
		ServiceKey       string `json:"serviceKey"`
		SignatureBucket  string `json:"signatureBucket"`
		AttachmentBucket string `json:"attachmentBucket"`
	} `json:"storage"`

	Email struct {
		Driver       string `json:"driver"` // resend | smtp
		From         string `json:"from"`
		ResendAPIKey string `json:"resendAPIKey"`
		ResendURL    string `json:"resendURL"`
		SMTP         struct {
			Host     string `json:"host"`
			Port     int    `json:"port"`
			User     string `json:"user"`
			Password string `json:"password"`
		} `json:"smtp"`
	} `json:"email"`

	WhatsApp struct {
		ProbeSpec             string `json:"probeSpec"` // cron spec, empty disables the probe
		RequestTimeoutSeconds int    `json:"requestTimeoutSeconds"`
	} `json:"whatsapp"`

	Signature struct {
		TokenTTLHours int `json:"tokenTTLHours"` // 0 means tokens never expire
		MaxImageKB    int `json:"maxImageKB"`
	} `json:"signature"`

	Report struct {
		ImageTimeoutSeconds int    `json:"imageTimeoutSeconds"`
		TotalTimeoutSeconds int    `json:"totalTimeoutSeconds"`
		LogoURL             string `json:"logoURL"`
	} `json:"report"`

	Sentry struct {
		DSN         string `json:"dsn"`
		Environment string `json:"environment"`
	} `json:"sentry"`

	CORS struct {
		AllowOrigins []string `json:"allowOrigins"`
	} `json:"cors"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads the configuration file.
// TAVLIST_CONFIG_PATH wins; in debug mode TAVLIST_DEBUG_CONFIG_PATH or ./etc/debug-config.yaml
// is used; otherwise /etc/tavlist/config.yaml.
func initConfig() *Config {
	configPath := resolvePath()
	klog.Info("config path: ", configPath)

	config, err := Load(configPath)
	if err != nil {
		klog.Error("init config", err)
		panic(err)
	}
	return config
}

func resolvePath() string {
	if p := os.Getenv("TAVLIST_CONFIG_PATH"); p != "" {
		return p
	}
	if IsDebugMode() {
		if p := os.Getenv("TAVLIST_DEBUG_CONFIG_PATH"); p != "" {
			return p
		}
		return "./etc/debug-config.yaml"
	}
	return "/etc/tavlist/config.yaml"
}

// Load reads a YAML file and applies defaults.
func Load(filePath string) (*Config, error) {
	config := &Config{}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	config.ApplyDefaults()
	return config, nil
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8088"
	}
	if c.TimeZone == "" {
		c.TimeZone = "America/Sao_Paulo"
	}
	if c.Auth.AccessTokenExpiryHour <= 0 {
		c.Auth.AccessTokenExpiryHour = 24
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "tavlist.db"
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = "disable"
	}
	if c.Database.Postgres.TimeZone == "" {
		c.Database.Postgres.TimeZone = c.TimeZone
	}
	if c.Redis.PublicRateLimit <= 0 {
		c.Redis.PublicRateLimit = 60
	}
	if c.Redis.WindowSeconds <= 0 {
		c.Redis.WindowSeconds = 60
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "local"
	}
	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "./data/storage"
	}
	if c.Storage.PublicBaseURL == "" && c.Storage.Driver == "local" {
		c.Storage.PublicBaseURL = "http://localhost" + c.ServerAddr
	}
	if c.Storage.SignatureBucket == "" {
		c.Storage.SignatureBucket = "assinaturas"
	}
	if c.Storage.AttachmentBucket == "" {
		c.Storage.AttachmentBucket = "etapa-anexos"
	}
	if c.Email.Driver == "" {
		c.Email.Driver = "resend"
	}
	if c.Email.From == "" {
		c.Email.From = "TaviList <onboarding@resend.dev>"
	}
	if c.Email.ResendURL == "" {
		c.Email.ResendURL = "https://api.resend.com"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
	if c.WhatsApp.RequestTimeoutSeconds <= 0 {
		c.WhatsApp.RequestTimeoutSeconds = 15
	}
	if c.Signature.MaxImageKB <= 0 {
		c.Signature.MaxImageKB = 500
	}
	if c.Report.ImageTimeoutSeconds <= 0 {
		c.Report.ImageTimeoutSeconds = 10
	}
	if c.Report.TotalTimeoutSeconds <= 0 {
		c.Report.TotalTimeoutSeconds = 60
	}
}
