package cli

import (
	"fmt"

	"github.com/Masood0319/Startups-platform/config"
	"github.com/Masood0319/Startups-platform/database"
	"github.com/Masood0319/Startups-platform/utils"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is the wired dependency set shared by the commands that touch the database.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	redis *redis.Client
	store *database.Store
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := utils.InitLogger(cfg.Development())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	utils.InitJWT(cfg.JWT)

	db, err := database.Connect(cfg.Database, cfg.Development(), log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	rc := utils.InitRedis(cfg.Redis)
	return &app{cfg: cfg, log: log, db: db, redis: rc, store: database.NewStore(db)}, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}
