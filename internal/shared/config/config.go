package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Database struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	User     string `env:"DB_USER" envDefault:"admin"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"appdb"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// Admin holds the reviewer credentials. The password is only ever stored
// as a bcrypt hash.
type Admin struct {
	Username     string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	PasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	JWTSecret    string        `env:"JWT_SECRET"`
	SessionTTL   time.Duration `env:"ADMIN_SESSION_TTL" envDefault:"12h"`
}

// DefaultRemoteBaseURL is where the portal expects the registry API when
// REMOTE_BASE_URL is unset.
const DefaultRemoteBaseURL = "http://localhost:5000"

// Remote describes the registry API as seen from its clients. An empty
// BaseURL means no API: regctl then works from its SQLite file alone.
type Remote struct {
	BaseURL       string        `env:"REMOTE_BASE_URL"`
	Timeout       time.Duration `env:"REMOTE_TIMEOUT"`
	AdminUsername string        `env:"REMOTE_ADMIN_USERNAME"`
	AdminPassword string        `env:"REMOTE_ADMIN_PASSWORD"`
}

// API configures cmd/api. TrustedProxies are the hosts allowed to set
// X-Forwarded-For, such as the portal.
type API struct {
	Env            string   `env:"APP_ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"5000"`
	RedisAddr      string   `env:"REDIS_ADDR"`
	KafkaBroker    string   `env:"KAFKA_BROKER"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1,::1"`
	Database       Database
	Admin          Admin
}

type Worker struct {
	Env          string        `env:"APP_ENV" envDefault:"development"`
	KafkaBroker  string        `env:"KAFKA_BROKER,required,notEmpty"`
	PollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
	Database     Database
}

type Consumer struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	KafkaBroker string `env:"KAFKA_BROKER,required,notEmpty"`
	GroupID     string `env:"KAFKA_GROUP_ID" envDefault:"company-registry-certificates"`
	RedisAddr   string `env:"REDIS_ADDR,required,notEmpty"`
	Database    Database
}

// Portal configures cmd/portal. With no TrustedProxies the client address
// is the TCP peer.
type Portal struct {
	Env                 string   `env:"APP_ENV" envDefault:"development"`
	Port                string   `env:"PORTAL_PORT" envDefault:"3000"`
	TrustedProxies      []string `env:"PORTAL_TRUSTED_PROXIES" envSeparator:","`
	RedisAddr           string   `env:"REDIS_ADDR"`
	CertificateStrategy string   `env:"CERTIFICATE_STRATEGY" envDefault:"template"`
	Remote              Remote
	Admin               Admin
}

type CLI struct {
	DataPath            string `env:"REGCTL_DB" envDefault:"regctl.db"`
	CertificateStrategy string `env:"CERTIFICATE_STRATEGY" envDefault:"template"`
	Remote              Remote
	Admin               Admin
}

// defaulter is implemented by configs whose defaults depend on more than
// one field or differ from the shared struct tags.
type defaulter interface {
	applyDefaults()
}

func (p *Portal) applyDefaults() {
	if p.Remote.BaseURL == "" {
		p.Remote.BaseURL = DefaultRemoteBaseURL
	}
}

// Load reads an optional .env file and parses the environment into T.
func Load[T any]() (T, error) {
	_ = godotenv.Load()

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if d, ok := any(&cfg).(defaulter); ok {
		d.applyDefaults()
	}
	return cfg, nil
}

func IsProduction(appEnv string) bool {
	return appEnv == "production"
}
