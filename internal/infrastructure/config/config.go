package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env        string
	HTTPServer HTTPServer
	GRPCServer GRPCServer
	Database   Database
	Prometheus Prometheus
	Redis      Redis
	Posts      Posts
	Events     Events
}

type HTTPServer struct {
	Address     string
	Port        int
	CORSOrigins []string
}

type GRPCServer struct {
	Address string
	Port    int
}

type Database struct {
	Storage        string
	Username       string
	Password       string
	Host           string
	Port           string
	DbName         string
	MigrationsPath string
}

// DSN is the pgx connection string.
func (d Database) DSN() string {
	return d.url("postgresql")
}

// MigrateDSN addresses the same database through golang-migrate's pgx/v5 driver.
func (d Database) MigrateDSN() string {
	return d.url("pgx5")
}

func (d Database) url(scheme string) string {
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s?sslmode=disable",
		scheme,
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.DbName)
}

type Prometheus struct {
	Address string
	Port    int
}

type Redis struct {
	Enabled  bool
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type Posts struct {
	MaxImageBytes int64
}

type Events struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
	UseTLS      bool
}

func MustLoad() *Config {
	cfg, err := Load("./config")
	if err != nil {
		log.Printf("Error reading config file: %s", err)
		os.Exit(1)
	}
	return cfg
}

// Load reads config.yaml from configPath, overlaying environment variables
// (database.host -> DATABASE_HOST). A missing config file is not an error; defaults
// and environment apply.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env.local")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	config := &Config{
		Env: v.GetString("env"),
		HTTPServer: HTTPServer{
			Address:     v.GetString("http_server.address"),
			Port:        v.GetInt("http_server.port"),
			CORSOrigins: v.GetStringSlice("http_server.cors_origins"),
		},
		GRPCServer: GRPCServer{
			Address: v.GetString("grpc_server.address"),
			Port:    v.GetInt("grpc_server.port"),
		},
		Database: Database{
			Storage:        v.GetString("database.storage"),
			Username:       v.GetString("database.username"),
			Password:       v.GetString("database.password"),
			Host:           v.GetString("database.host"),
			Port:           v.GetString("database.port"),
			DbName:         v.GetString("database.db_name"),
			MigrationsPath: v.GetString("database.migrations_path"),
		},
		Prometheus: Prometheus{
			Address: v.GetString("prometheus.address"),
			Port:    v.GetInt("prometheus.port"),
		},
		Redis: Redis{
			Enabled:  v.GetBool("redis.enabled"),
			Address:  v.GetString("redis.address"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
		},
		Posts: Posts{
			MaxImageBytes: v.GetInt64("posts.max_image_bytes"),
		},
		Events: Events{
			Broker:      v.GetString("events.broker"),
			ClientID:    v.GetString("events.client_id"),
			TopicPrefix: v.GetString("events.topic_prefix"),
			Username:    v.GetString("events.username"),
			Password:    v.GetString("events.password"),
			UseTLS:      v.GetBool("events.use_tls"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 8000)
	v.SetDefault("http_server.cors_origins", []string{"http://127.0.0.1:5500", "http://localhost:5500"})

	v.SetDefault("grpc_server.address", "0.0.0.0")
	v.SetDefault("grpc_server.port", 50054)

	v.SetDefault("database.storage", StoragePostgres)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "admin")
	v.SetDefault("database.host", "social-db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.db_name", "simplesocial")
	v.SetDefault("database.migrations_path", "migrations")

	v.SetDefault("prometheus.address", "0.0.0.0")
	v.SetDefault("prometheus.port", 9104)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "redis")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("posts.max_image_bytes", 10<<20)

	v.SetDefault("events.broker", "")
	v.SetDefault("events.client_id", "")
	v.SetDefault("events.topic_prefix", "simple-social")
	v.SetDefault("events.username", "")
	v.SetDefault("events.password", "")
	v.SetDefault("events.use_tls", false)
}
