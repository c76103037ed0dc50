package configuration

import (
	"fmt"
	"os"
	"strconv"

	"post-archiver/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Provider    Provider    `json:"provider"`
	Payments    Payments    `json:"payments"`
	Credits     Credits     `json:"credits"`
	ColdStore   ColdStore   `json:"coldStore"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RateLimit   RateLimit   `json:"rateLimit"`
	Jobs        Jobs        `json:"jobs"`
	Vault       Vault       `json:"vault"`
}

type App struct {
	Port          int    `json:"port"`
	SecretKey     string `json:"secretKey"`
	PublicBaseURL string `json:"publicBaseURL"`
	TLSEnabled    bool   `json:"tlsEnabled"`
	TLSCertFile   string `json:"tlsCertFile"`
	TLSKeyFile    string `json:"tlsKeyFile"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mssql Db `json:"mssql"`
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Provider configures the upstream data-collection API. Poll cadence is
// configuration, not hidden constants: some datasets take tens of
// minutes and those platforms are listed in WebhookPlatforms so the
// webhook path is used instead of polling.
type Provider struct {
	BaseURL             string            `json:"baseURL"`
	APIKey              string            `json:"apiKey"`
	WebhookSecret       string            `json:"webhookSecret"`
	DatasetIDs          map[string]string `json:"datasetIDs"`
	WebhookPlatforms    []string          `json:"webhookPlatforms"`
	PollIntervalSeconds int               `json:"pollIntervalSeconds"`
	PollTimeoutSeconds  int               `json:"pollTimeoutSeconds"`
}

type Payments struct {
	WebhookSecret string `json:"webhookSecret"`
	SaleCredits   int64  `json:"saleCredits"`
}

// Credits is the archive cost function: base + surcharges.
type Credits struct {
	Base                  int64 `json:"base"`
	AISurcharge           int64 `json:"aiSurcharge"`
	DeepResearchSurcharge int64 `json:"deepResearchSurcharge"`
}

type ColdStore struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
	Prefix    string `json:"prefix"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type RateLimit struct {
	Limit         int `json:"limit"`
	WindowSeconds int `json:"windowSeconds"`
}

type Jobs struct {
	TTLHours int `json:"ttlHours"`
}

// Vault enables writing completed archives as markdown files. Empty Dir
// disables the feature.
type Vault struct {
	Dir string `json:"dir"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initDatabase(&C)
	initProvider(&C)
	initDefaults(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		C.App.PublicBaseURL = v
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; admin endpoints will reject every token. Provide SECRET_KEY via environment.")
	}
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}

	// Optional MSSQL config via environment (Azure SQL in production)
	if v := os.Getenv("MSSQL_DB_NAME"); v != "" && C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = v
	}
	if v := os.Getenv("MSSQL_HOST"); v != "" && C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = v
	}
	if v := os.Getenv("MSSQL_USER"); v != "" && C.Database.Mssql.User == "" {
		C.Database.Mssql.User = v
	}
	if v := os.Getenv("MSSQL_PASSWORD"); v != "" && C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = v
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = "1433"
	}
}

func initProvider(C *Config) {
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		C.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_WEBHOOK_SECRET"); v != "" {
		C.Provider.WebhookSecret = v
	}
	if v := os.Getenv("PAYMENT_WEBHOOK_SECRET"); v != "" {
		C.Payments.WebhookSecret = v
	}
	if C.Provider.BaseURL == "" {
		C.Provider.BaseURL = "https://api.brightdata.com"
	}
	if C.Provider.PollIntervalSeconds == 0 {
		C.Provider.PollIntervalSeconds = 10
	}
	if C.Provider.PollTimeoutSeconds == 0 {
		C.Provider.PollTimeoutSeconds = 600
	}
}

func initDefaults(C *Config) {
	if C.Credits.Base == 0 {
		C.Credits.Base = 1
	}
	if C.Credits.AISurcharge == 0 {
		C.Credits.AISurcharge = 1
	}
	if C.Credits.DeepResearchSurcharge == 0 {
		C.Credits.DeepResearchSurcharge = 2
	}
	if C.Payments.SaleCredits == 0 {
		C.Payments.SaleCredits = 100
	}
	if C.RateLimit.Limit == 0 {
		C.RateLimit.Limit = 30
	}
	if C.RateLimit.WindowSeconds == 0 {
		C.RateLimit.WindowSeconds = 60
	}
	if C.Jobs.TTLHours == 0 {
		C.Jobs.TTLHours = 24
	}
	if C.Pubsub.Topic == "" {
		C.Pubsub.Topic = "archive-events"
	}
	if C.ServiceBus.Queue == "" {
		C.ServiceBus.Queue = "archive-events"
	}
	if v := os.Getenv("VAULT_DIR"); v != "" {
		C.Vault.Dir = v
	}
}
