package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	StorageLocal = "local"
	StorageMinIO = "minio"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type Config struct {
	Env                 string
	ServerPort          int
	DatabaseURL         string
	DB                  DB
	MigrateOnStart      bool
	JWTSecretKey        string
	AccessTokenDuration time.Duration
	BcryptCost          int
	MaxUploadSize       int64
	StorageBackend      string
	UploadDir           string
	MinIO               MinIO
	Redis               Redis
	CORSAllowedOrigins  []string
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.ServerPort))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("invalid MAX_UPLOAD_SIZE %d", c.MaxUploadSize))
	}
	if c.AccessTokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("invalid ACCESS_TOKEN_DURATION %s", c.AccessTokenDuration))
	}

	switch c.StorageBackend {
	case StorageLocal:
		if c.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is empty"))
		}
	case StorageMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.BucketName == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("port", 8080)

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "password")
	v.SetDefault("db_name", "tagfeed")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("migrate_on_start", true)

	v.SetDefault("access_token_duration", time.Hour)
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("max_upload_size", 5*1024*1024)

	v.SetDefault("storage_backend", StorageLocal)
	v.SetDefault("upload_dir", "uploads")

	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "minioadmin")
	v.SetDefault("minio_secret_key", "minioadmin")
	v.SetDefault("minio_bucket", "uploads")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_region", "us-east-1")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", time.Minute)

	v.SetDefault("cors_allowed_origins", "*")
}

func loadDB(v *viper.Viper) DB {
	return DB{
		DbHOST:     v.GetString("db_host"),
		DbPORT:     v.GetString("db_port"),
		DbUSER:     v.GetString("db_user"),
		DbPASSWORD: v.GetString("db_password"),
		DbNAME:     v.GetString("db_name"),
		DbSSLMODE:  v.GetString("db_sslmode"),
	}
}

// DSN returns the explicit connection string, or one assembled from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.DbHOST,
		c.DB.DbPORT,
		c.DB.DbUSER,
		c.DB.DbPASSWORD,
		c.DB.DbNAME,
		c.DB.DbSSLMODE,
	)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)

	return &Config{
		Env:                 v.GetString("app_env"),
		ServerPort:          v.GetInt("port"),
		DatabaseURL:         v.GetString("database_url"),
		DB:                  loadDB(v),
		MigrateOnStart:      v.GetBool("migrate_on_start"),
		JWTSecretKey:        v.GetString("jwt_secret"),
		AccessTokenDuration: v.GetDuration("access_token_duration"),
		BcryptCost:          v.GetInt("bcrypt_cost"),
		MaxUploadSize:       v.GetInt64("max_upload_size"),
		StorageBackend:      strings.ToLower(v.GetString("storage_backend")),
		UploadDir:           v.GetString("upload_dir"),
		MinIO: MinIO{
			Endpoint:   v.GetString("minio_endpoint"),
			AccessKey:  v.GetString("minio_access_key"),
			SecretKey:  v.GetString("minio_secret_key"),
			BucketName: v.GetString("minio_bucket"),
			UseSSL:     v.GetBool("minio_use_ssl"),
			Region:     v.GetString("minio_region"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			CacheTTL: v.GetDuration("cache_ttl"),
		},
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	return FromViper(v)
}
