package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "calmora/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Auth     sharedConfig.AuthConfig     `mapstructure:"auth"`
	OAuth    sharedConfig.OAuthConfig    `mapstructure:"oauth"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Email    sharedConfig.EmailConfig    `mapstructure:"email"`
	SMS      sharedConfig.SMSConfig      `mapstructure:"sms"`
	Push     sharedConfig.PushConfig     `mapstructure:"push"`
	Payment  sharedConfig.PaymentConfig  `mapstructure:"payment"`
	Storage  sharedConfig.StorageConfig  `mapstructure:"storage"`
	Worker   sharedConfig.WorkerConfig   `mapstructure:"worker"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml and CALMORA_* environment variables.
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("CALMORA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.cors_allowed_origins", []string{"*"})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "calmora_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("auth.password.bcrypt_cost", 12)
	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.access_exp_minutes", 15)
	viper.SetDefault("auth.jwt.refresh_exp_days", 7)
	viper.SetDefault("auth.otp.length", 6)
	viper.SetDefault("auth.otp.expires_minutes", 10)
	viper.SetDefault("auth.otp.max_attempts", 5)

	viper.SetDefault("oauth.google.client_id", "")
	viper.SetDefault("oauth.google.client_secret", "")
	viper.SetDefault("oauth.google.redirect_url", "http://localhost:8080/api/v1/auth/google/callback")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "noreply@calmora.local")
	viper.SetDefault("email.from_name", "Calmora")

	viper.SetDefault("sms.api_url", "")
	viper.SetDefault("sms.api_key", "")
	viper.SetDefault("sms.sender", "CALMORA")

	viper.SetDefault("push.fcm_endpoint", "https://fcm.googleapis.com/v1/projects/calmora/messages:send")
	viper.SetDefault("push.access_token", "")

	viper.SetDefault("payment.gateway_url", "")
	viper.SetDefault("payment.api_key", "")
	viper.SetDefault("payment.webhook_secret", "change-me-in-production")

	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.local_base_path", "./data/uploads")
	viper.SetDefault("storage.local_base_url", "http://localhost:8080/media")
	viper.SetDefault("storage.remote_base_url", "")
	viper.SetDefault("storage.remote_token", "")
	viper.SetDefault("storage.sign_secret", "change-me-in-production")
	viper.SetDefault("storage.sign_ttl_minutes", 60)

	viper.SetDefault("worker.session_abandon_hours", 24)
	viper.SetDefault("worker.renewal_lookahead_days", 7)
	viper.SetDefault("worker.expiry_sweep_interval_min", 60)
	viper.SetDefault("worker.session_sweep_interval_min", 30)
	viper.SetDefault("worker.business_timezone", "UTC")
}
