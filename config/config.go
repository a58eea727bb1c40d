// Package config loads service configuration from the environment (and an
// optional .env file) plus the TOML compliance policy.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Masood0319/Startups-platform/compliance"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	Port         string
	CORSOrigins  []string
	AdminKeyHash string
	PolicyFile   string
	Policy       compliance.Policy

	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	R2       R2Config
}

type DatabaseConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Pass            string
	Name            string
	Params          string
	TLS             string
	TLSVerify       bool
	TLSCAPath       string
	TLSClientCert   string
	TLSClientKey    string
	ConnectRetries  int
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingOnConnect   bool
}

type JWTConfig struct {
	Secret   string
	Audience string
	Issuer   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Enabled reports whether every R2 credential is present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.Bucket != ""
}

// Development reports whether ENV is "development".
func (c *Config) Development() bool {
	return c.Env == "development"
}

// LoadDotEnv reads .env if present without overwriting variables already set.
func LoadDotEnv() {
	envMap, err := godotenv.Read()
	if err != nil {
		return
	}
	for k, v := range envMap {
		if os.Getenv(k) == "" {
			os.Setenv(k, v)
		}
	}
}

// Load builds the configuration from the environment and reads the compliance policy file.
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := &Config{
		Env:          strings.ToLower(getenv("ENV", "production")),
		Port:         getenv("PORT", "8080"),
		AdminKeyHash: getenv("ADMIN_KEY_HASH", ""),
		PolicyFile:   getenv("COMPLIANCE_POLICY_FILE", ""),
		Database: DatabaseConfig{
			DSN:             getenv("DB_DSN", ""),
			Host:            getenv("DB_HOST", "127.0.0.1"),
			Port:            getenv("DB_PORT", "3306"),
			User:            getenv("DB_USER", "root"),
			Pass:            os.Getenv("DB_PASS"),
			Name:            getenv("DB_NAME", "travest"),
			Params:          getenv("DB_PARAMS", "charset=utf8mb4&parseTime=True&loc=UTC"),
			TLS:             getenv("DB_TLS", "true"),
			TLSVerify:       getenv("DB_TLS_VERIFY", "false") == "true",
			TLSCAPath:       getenv("DB_TLS_CA_PATH", ""),
			TLSClientCert:   getenv("DB_TLS_CLIENT_CERT", ""),
			TLSClientKey:    getenv("DB_TLS_CLIENT_KEY", ""),
			ConnectRetries:  atoi(getenv("DB_CONNECT_RETRIES", "5")),
			MaxOpenConns:    atoi(getenv("DB_MAX_OPEN_CONNS", "25")),
			MaxIdleConns:    atoi(getenv("DB_MAX_IDLE_CONNS", "25")),
			ConnMaxLifetime: time.Duration(atoi(getenv("DB_CONN_MAX_LIFETIME", "3600"))) * time.Second,
			PingOnConnect:   getenv("DB_PING_ON_CONNECT", "true") == "true",
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Audience: os.Getenv("JWT_AUD"),
			Issuer:   os.Getenv("JWT_ISS"),
		},
		Redis: RedisConfig{
			Addr:     strings.ReplaceAll(getenv("REDIS_ADDR", ""), " ", ""),
			Password: os.Getenv("REDIS_PASS"),
			DB:       atoi(getenv("REDIS_DB", "0")),
		},
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
		},
	}

	cfg.CORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		for _, p := range strings.Split(v, ",") {
			if o := strings.TrimSpace(p); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	policy, err := LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy
	return cfg, nil
}

// Validate checks the variables the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Database.DSN == "" {
		for _, k := range []string{"DB_HOST", "DB_USER", "DB_NAME"} {
			if os.Getenv(k) == "" {
				missing = append(missing, k)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// LoadPolicy reads the compliance lists from a TOML file. An empty path, or
// lists left out of the file, fall back to the built-in policy.
func LoadPolicy(path string) (compliance.Policy, error) {
	if path == "" {
		return compliance.DefaultPolicy(), nil
	}
	var p compliance.Policy
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return compliance.Policy{}, fmt.Errorf("read compliance policy %s: %w", path, err)
	}
	return p.WithDefaults(), nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	if v <= 0 {
		return 0
	}
	return v
}
