package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Masood0319/Startups-platform/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table this service owns or reads.
func Models() []interface{} {
	return []interface{}{
		&models.Investment{},
		&models.Contract{},
		&models.Startup{},
		&models.RevokedToken{},
	}
}

// backupArgs splits DB_BACKUP_FLAGS on whitespace and appends DB_NAME when set.
func backupArgs() []string {
	args := strings.Fields(os.Getenv("DB_BACKUP_FLAGS"))
	if name := strings.TrimSpace(os.Getenv("DB_NAME")); name != "" {
		args = append(args, name)
	}
	return args
}

// BackupDatabase writes a mysqldump of the configured database to outPath.
// Extra mysqldump flags come from DB_BACKUP_FLAGS.
func BackupDatabase(ctx context.Context, outPath string) error {
	args := backupArgs()
	if len(args) == 0 {
		return errors.New("backup needs DB_NAME or DB_BACKUP_FLAGS")
	}
	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump not found in PATH: %w", err)
	}
	cmd := exec.CommandContext(ctx, "mysqldump", args...)
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

// RunMigrationsWithBackup takes a best-effort backup when DB_BACKUP_PATH is set,
// then auto-migrates the service's tables.
func RunMigrationsWithBackup(db *gorm.DB, log *zap.Logger) error {
	if backupPath := os.Getenv("DB_BACKUP_PATH"); backupPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := BackupDatabase(ctx, backupPath); err != nil {
			log.Warn("pre-migration backup failed", zap.String("path", backupPath), zap.Error(err))
		} else {
			log.Info("pre-migration backup written", zap.String("path", backupPath))
		}
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Info("migrations applied", zap.Int("tables", len(Models())))
	return nil
}
