package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	PayPal       PayPalConfig
	Delivery     DeliveryConfig
	Notify       NotifyConfig
	Exports      ExportsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Delivery.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SURVSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"SURVSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SURVSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SURVSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SURVSHOP_DB_DSN"`
	Driver string `envconfig:"SURVSHOP_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"SURVSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SURVSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SURVSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SURVSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type PayPalConfig struct {
	ClientID string `envconfig:"SURVSHOP_PAYPAL_CLIENT_ID" required:"true"`
	Secret   string `envconfig:"SURVSHOP_PAYPAL_CLIENT_SECRET" required:"true"`
	Env      string `envconfig:"SURVSHOP_PAYPAL_ENV" default:"sandbox"`
	Currency string `envconfig:"SURVSHOP_PAYPAL_CURRENCY" default:"EUR"`
}

// Environment returns the normalized PayPal environment (sandbox/live).
func (p PayPalConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(p.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

// DeliveryConfig selects where per-player files are written.
type DeliveryConfig struct {
	Mode        string `envconfig:"SURVSHOP_DELIVERY_MODE" default:"local"`
	LocalRoot   string `envconfig:"SURVSHOP_DELIVERY_LOCAL_ROOT" default:"."`
	PlayerPath  string `envconfig:"SURVSHOP_DELIVERY_PLAYER_PATH"`
	BankingPath string `envconfig:"SURVSHOP_DELIVERY_BANKING_PATH"`
	VehiclePath string `envconfig:"SURVSHOP_DELIVERY_VEHICLE_PATH"`

	FTPHost     string        `envconfig:"SURVSHOP_FTP_HOST"`
	FTPPort     int           `envconfig:"SURVSHOP_FTP_PORT" default:"21"`
	FTPUser     string        `envconfig:"SURVSHOP_FTP_USER"`
	FTPPassword string        `envconfig:"SURVSHOP_FTP_PASSWORD"`
	FTPTimeout  time.Duration `envconfig:"SURVSHOP_FTP_TIMEOUT" default:"15s"`
}

func (d DeliveryConfig) validate() error {
	switch strings.ToLower(d.Mode) {
	case DeliveryModeLocal:
		if d.PlayerPath == "" || d.BankingPath == "" {
			return fmt.Errorf("%s and %s are required in local mode", EnvDeliveryPlayerPath, EnvDeliveryBankingPath)
		}
	case DeliveryModeFTP:
		if d.FTPHost == "" || d.PlayerPath == "" {
			return fmt.Errorf("%s and %s are required in ftp mode", EnvFTPHost, EnvDeliveryPlayerPath)
		}
	default:
		return fmt.Errorf("delivery mode must be %q or %q", DeliveryModeLocal, DeliveryModeFTP)
	}
	return nil
}

type NotifyConfig struct {
	WebhookURL string        `envconfig:"SURVSHOP_NOTIFY_WEBHOOK_URL"`
	Timeout    time.Duration `envconfig:"SURVSHOP_NOTIFY_TIMEOUT" default:"5s"`
}

type ExportsConfig struct {
	Dir      string        `envconfig:"SURVSHOP_EXPORTS_DIR" default:"exports"`
	Interval time.Duration `envconfig:"SURVSHOP_EXPORTS_INTERVAL" default:"15m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SURVSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SURVSHOP_AUTO_MIGRATE" default:"false"`
}
