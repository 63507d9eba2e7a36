package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env             string         `yaml:"env"`              // Env is the current environment: local, development, production.
	Postgres        PostgresConfig `yaml:"postgres"`         // Postgres holds the database configuration.
	HTTP            HTTPConfig     `yaml:"http"`             // HTTP holds the listener configuration.
	ShutdownTimeout time.Duration  `yaml:"shutdown_timeout"` // ShutdownTimeout bounds the graceful stop of both servers.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`      // Host is the database server address.
	Port     string `yaml:"port"`      // Port is the database server port.
	User     string `yaml:"user"`      // User is the database user.
	Password string `yaml:"password"`  // Password is the database user's password.
	Dbname   string `yaml:"db_name"`   // Dbname is the name of the database.
	MaxConns int32  `yaml:"max_conns"` // MaxConns is the upper bound of pooled connections.
}

// HTTPConfig holds the ports of the public API and of the monitoring server.
type HTTPConfig struct {
	Port           int `yaml:"port"`
	MonitoringPort int `yaml:"monitoring_port"`
}

const (
	defaultDBPort          = "5432"
	defaultMaxConns        = 10
	defaultHTTPPort        = 3000
	defaultMonitoringPort  = 8080
	defaultShutdownTimeout = 10 * time.Second
)

// envBindings maps configuration keys to the environment variables that override them.
var envBindings = map[string]string{
	"env":                  "APP_ENV",
	"postgres.host":        "DB_HOST",
	"postgres.port":        "DB_PORT",
	"postgres.db_name":     "DB_NAME",
	"postgres.user":        "DB_USER",
	"postgres.password":    "DB_PASSWORD",
	"postgres.max_conns":   "DB_MAX_CONNS",
	"http.port":            "HTTP_PORT",
	"http.monitoring_port": "MONITORING_PORT",
	"shutdown_timeout":     "SHUTDOWN_TIMEOUT",
}

// MustLoad reads an optional .env file, an optional YAML file pointed to by CONFIG_PATH
// and the environment, in increasing order of precedence. It panics when the
// configuration is unreadable or when database credentials are missing.
func MustLoad() *Config {
	// .env is optional, the real environment always wins
	_ = godotenv.Load()

	vpr := viper.New()

	vpr.SetDefault("env", "local")
	vpr.SetDefault("postgres.port", defaultDBPort)
	vpr.SetDefault("postgres.max_conns", defaultMaxConns)
	vpr.SetDefault("http.port", defaultHTTPPort)
	vpr.SetDefault("http.monitoring_port", defaultMonitoringPort)
	vpr.SetDefault("shutdown_timeout", defaultShutdownTimeout)

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		vpr.SetConfigFile(configPath)
		if err := vpr.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	for key, env := range envBindings {
		if err := vpr.BindEnv(key, env); err != nil {
			panic("config error: " + err.Error())
		}
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
			MaxConns: vpr.GetInt32("postgres.max_conns"),
		},
		HTTP: HTTPConfig{
			Port:           vpr.GetInt("http.port"),
			MonitoringPort: vpr.GetInt("http.monitoring_port"),
		},
		ShutdownTimeout: vpr.GetDuration("shutdown_timeout"),
	}

	if missing := cfg.Postgres.missing(); len(missing) != 0 {
		panic("database configuration is incomplete, missing: " + strings.Join(missing, ", "))
	}
	if cfg.Postgres.MaxConns <= 0 {
		panic("failed to parse max_conns from configuration")
	}
	if cfg.ShutdownTimeout <= 0 {
		panic("failed to parse shutdown_timeout from configuration")
	}

	return cfg
}

func (p PostgresConfig) missing() []string {
	var missing []string

	if p.Host == "" {
		missing = append(missing, "host")
	}
	if p.Dbname == "" {
		missing = append(missing, "db_name")
	}
	if p.User == "" {
		missing = append(missing, "user")
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}

	return missing
}
