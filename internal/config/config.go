package config

import (
	"log"
	"os"
	"strings"
)

type ServiceConfig struct {
	Port        string
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
	MinioCfg    MinioConfig
	AuthCfg     AuthConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type MinioConfig struct {
	MinioUrl         string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioSecure      string
	MinioLocation    string
	MinioResourceUrl string
}

type AuthConfig struct {
	// JWTSecret signs session tokens. EmailEncryptionSecret seeds the donor
	// email cipher key. They are deliberately independent so rotating one
	// does not invalidate the other.
	JWTSecret             string
	EmailEncryptionSecret string
	AdminEmail            string
	AdminPassword         string
}

func New() *ServiceConfig {
	return &ServiceConfig{
		Port: getEnv("PORT", "3000"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnv("DB_NAME", "donation_service"),
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PWD"),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: os.Getenv("RABBITMQ_USER"),
			Password: os.Getenv("RABBITMQ_PWD"),
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
		},
		MinioCfg: MinioConfig{
			MinioUrl:         os.Getenv("MINIO_URL"),
			MinioAccessKey:   os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey:   os.Getenv("MINIO_SECRET_KEY"),
			MinioSecure:      getEnv("MINIO_SECURE", "false"),
			MinioLocation:    getEnv("MINIO_LOCATION", "us-east-1"),
			MinioResourceUrl: os.Getenv("MINIO_RESOURCE_URL"),
		},
		AuthCfg: AuthConfig{
			JWTSecret:             os.Getenv("JWT_SECRET"),
			EmailEncryptionSecret: os.Getenv("EMAIL_ENCRYPTION_SECRET"),
			AdminEmail:            getEnv("ADMIN_EMAIL", "admin@localhost"),
			AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
		},
	}
}

// CheckSecurity refuses to run without a signing secret and flags secrets
// that look like placeholders. Returns fatal problems, logs the rest.
func (c *ServiceConfig) CheckSecurity() []string {
	var errors []string

	if c.AuthCfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is not set")
	} else {
		if len(c.AuthCfg.JWTSecret) < 32 {
			log.Printf("warning: JWT_SECRET is shorter than 32 characters")
		}
		lowered := strings.ToLower(c.AuthCfg.JWTSecret)
		if strings.Contains(lowered, "change") || strings.Contains(lowered, "secret") {
			log.Printf("warning: JWT_SECRET looks like a default value, replace it with a random one")
		}
	}

	if c.AuthCfg.EmailEncryptionSecret == "" {
		errors = append(errors, "EMAIL_ENCRYPTION_SECRET is not set")
	}

	return errors
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
