package config

import "fmt"

type ServerConfig struct {
	Host               string   `mapstructure:"host"`
	Port               int      `mapstructure:"port"`
	Mode               string   `mapstructure:"mode"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type AuthConfig struct {
	JWT      JWTConfig      `mapstructure:"jwt"`
	Password PasswordConfig `mapstructure:"password"`
	OTP      OTPConfig      `mapstructure:"otp"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	RefreshExpDays   int    `mapstructure:"refresh_exp_days"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type OTPConfig struct {
	Length         int `mapstructure:"length"`
	ExpiresMinutes int `mapstructure:"expires_minutes"`
	MaxAttempts    int `mapstructure:"max_attempts"`
}

type OAuthConfig struct {
	Google OAuthProviderConfig `mapstructure:"google"`
}

type OAuthProviderConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type EmailConfig struct {
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
	SMTPUser    string `mapstructure:"smtp_user"`
	SMTPPass    string `mapstructure:"smtp_password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

type SMSConfig struct {
	APIURL string `mapstructure:"api_url"`
	APIKey string `mapstructure:"api_key"`
	Sender string `mapstructure:"sender"`
}

type PushConfig struct {
	FCMEndpoint string `mapstructure:"fcm_endpoint"`
	AccessToken string `mapstructure:"access_token"`
}

type PaymentConfig struct {
	GatewayURL    string `mapstructure:"gateway_url"`
	APIKey        string `mapstructure:"api_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// StorageConfig selects the blob storage backend at startup. Backend is
// "local" or "remote"; the selection is fixed for the process lifetime.
type StorageConfig struct {
	Backend       string `mapstructure:"backend"`
	LocalBasePath string `mapstructure:"local_base_path"`
	LocalBaseURL  string `mapstructure:"local_base_url"`
	RemoteBaseURL string `mapstructure:"remote_base_url"`
	RemoteToken   string `mapstructure:"remote_token"`
	SignSecret    string `mapstructure:"sign_secret"`
	SignTTLMin    int    `mapstructure:"sign_ttl_minutes"`
}

type WorkerConfig struct {
	SessionAbandonHours     int    `mapstructure:"session_abandon_hours"`
	RenewalLookaheadDays    int    `mapstructure:"renewal_lookahead_days"`
	ExpirySweepIntervalMin  int    `mapstructure:"expiry_sweep_interval_min"`
	SessionSweepIntervalMin int    `mapstructure:"session_sweep_interval_min"`
	BusinessTimezone        string `mapstructure:"business_timezone"`
}
