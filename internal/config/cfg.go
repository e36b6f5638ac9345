package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Address     string `envconfig:"SERVER_ADDRESS" default:":8080"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
}

type Google struct {
	ServiceEmail  string `envconfig:"GOOGLE_SERVICE_EMAIL" required:"true"`
	PrivateKey    string `envconfig:"GOOGLE_PRIVATE_KEY" required:"true"`
	SpreadsheetID string `envconfig:"GOOGLE_SHEET_ID" required:"true"`
}

type Db struct {
	Dialect        string `envconfig:"DB_DIALECT" default:"sqlite"`
	Source         string `envconfig:"DB_NAME" default:"subscribers.db"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_DIR" default:"./migrations"`
}

type Redis struct {
	// Addr empty disables the subscriber-set cache.
	Addr       string `envconfig:"REDIS_ADDR"`
	TTLSeconds int    `envconfig:"REDIS_TTL" default:"30"`
}

type Stats struct {
	CronSpec string `envconfig:"STATS_CRON_SPEC" default:"0 */5 * * * *"`
}

type Config struct {
	Google Google
	Server Server
	DB     Db
	Redis  Redis
	Stats  Stats

	LogsPath string `envconfig:"LOGS_PATH" default:"./http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
