package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

// Config holds every runtime setting. It is built once in main and
// passed down by reference; nothing reads the environment after Load.
type Config struct {
	AppName    string         `yaml:"app_name"`
	DBEngine   string         `yaml:"db_engine"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
	LogLevel   string         `yaml:"log_level"`
	LogPath    string         `yaml:"log_path"`
	BcryptCost int            `yaml:"bcrypt_cost"`
	Admin      AdminConfig    `yaml:"admin"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// AdminConfig seeds the default administrator on startup.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Rol      string `yaml:"rol"`
}

func (p PostgresConfig) DSN() string {
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, sslmode)
}

// Load reads .env (if present), then the environment, then an optional
// inmogest.yaml overlay in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:    getEnv("APP_NAME", "inmogest"),
		DBEngine:   getEnv("DB_ENGINE", EngineSQLite),
		SQLitePath: getEnv("DB_PATH", "inmogest.db"),
		Postgres: PostgresConfig{
			Host:     getEnv("PGHOST", "localhost"),
			Port:     getEnvInt("PGPORT", 5432),
			User:     os.Getenv("PGUSER"),
			Password: os.Getenv("PGPASSWORD"),
			Database: os.Getenv("PGDATABASE"),
			SSLMode:  os.Getenv("PGSSLMODE"),
		},
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogPath:    getEnv("LOG_PATH", "inmogest.log"),
		BcryptCost: getEnvInt("BCRYPT_COST", 12),
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin"),
			Rol:      getEnv("ADMIN_ROL", "ADMIN"),
		},
	}

	if err := cfg.loadOverlay("inmogest.yaml"); err != nil {
		return nil, err
	}

	if cfg.DBEngine != EngineSQLite && cfg.DBEngine != EnginePostgres {
		return nil, fmt.Errorf("motor de base de datos no soportado: %s", cfg.DBEngine)
	}

	return cfg, nil
}

func (c *Config) loadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
