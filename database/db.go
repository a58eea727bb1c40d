package database

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masood0319/Startups-platform/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the MySQL connection with TLS and timeout defaults, pooling and retry.
func Connect(cfg config.DatabaseConfig, development bool, log *zap.Logger) (*gorm.DB, error) {
	if DB != nil {
		return DB, nil
	}

	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildDSN(cfg)
	}

	safeDSN := dsn
	if cfg.Pass != "" {
		safeDSN = strings.Replace(safeDSN, cfg.Pass, "******", 1)
	}
	log.Info("connecting to database", zap.String("dsn", safeDSN))

	if strings.Contains(dsn, "tls=custom") {
		tlsCfg, err := customTLS(cfg)
		if err != nil {
			return nil, err
		}
		if err := mysqldriver.RegisterTLSConfig("custom", tlsCfg); err != nil {
			return nil, fmt.Errorf("register DB TLS config: %w", err)
		}
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if development {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	retries := cfg.ConnectRetries
	if retries <= 0 {
		retries = 1
	}
	var (
		db      *gorm.DB
		err     error
		backoff = time.Second
	)
	for attempt := 0; attempt < retries; attempt++ {
		db, err = gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		log.Warn("database connect failed, retrying", zap.Int("attempt", attempt+1), zap.Duration("backoff", backoff), zap.Error(err))
		time.Sleep(backoff)
		backoff *= 2
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.PingOnConnect {
		if err := pingWithTimeout(sqlDB, 5*time.Second); err != nil {
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
	}

	DB = db
	return DB, nil
}

func buildDSN(cfg config.DatabaseConfig) string {
	params := cfg.Params
	if !strings.Contains(params, "tls=") && (cfg.TLS == "true" || cfg.TLS == "preferred") {
		if cfg.TLSVerify {
			params += "&tls=custom"
		} else {
			params += "&tls=true"
		}
	}
	for _, p := range []string{"timeout=10s", "readTimeout=10s", "writeTimeout=10s"} {
		key := p[:strings.Index(p, "=")+1]
		if !strings.Contains(params, key) {
			params += "&" + p
		}
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name, params)
}

func customTLS(cfg config.DatabaseConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{}
	if cfg.TLSCAPath != "" {
		caCert, err := os.ReadFile(cfg.TLSCAPath)
		if err != nil {
			return nil, fmt.Errorf("failed reading DB TLS CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to append CA certs")
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.TLSClientCert != "" && cfg.TLSClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSClientCert, cfg.TLSClientKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert/key: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}

func pingWithTimeout(db *sql.DB, timeout time.Duration) error {
	ch := make(chan error, 1)
	go func() {
		ch <- db.Ping()
	}()
	select {
	case err := <-ch:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("ping timeout after %s", timeout)
	}
}
