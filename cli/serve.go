package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Masood0319/Startups-platform/compliance"
	"github.com/Masood0319/Startups-platform/controllers"
	"github.com/Masood0319/Startups-platform/database"
	"github.com/Masood0319/Startups-platform/routes"
	"github.com/Masood0319/Startups-platform/services"
	"github.com/Masood0319/Startups-platform/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const startupCacheTTL = 5 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the investment API. In development the schema is auto-migrated
on start; in other environments run "travest migrate" first.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Development() {
		a.log.Info("running in development mode, performing auto-migration")
		if err := database.RunMigrationsWithBackup(a.db, a.log); err != nil {
			return err
		}
	}

	policy := a.cfg.Policy
	// compliance lookups may be cached; creates always screen the stored profile
	startups := database.NewCachedStartups(a.store, a.redis, startupCacheTTL, a.log)
	svc := services.NewInvestmentService(a.store,
		compliance.NewValidator(compliance.NewScanner(policy)),
		compliance.NewIndustryScreen(policy, startups).WithGate(startups.Fresh()),
		a.log)

	archive, err := utils.NewPreviewArchive(cmd.Context(), a.cfg.R2)
	if err != nil {
		a.log.Warn("preview archive disabled", zap.Error(err))
		archive = nil
	}

	router := routes.InitRouter(routes.Deps{
		CORSOrigins:  a.cfg.CORSOrigins,
		AdminKeyHash: a.cfg.AdminKeyHash,
		Investments:  controllers.NewInvestmentController(svc, archive),
		Admin:        controllers.NewAdminController(services.NewReconciler(a.store, a.log)),
	})

	server := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      routes.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("port", a.cfg.Port), zap.Bool("r2_archive", archive != nil))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	a.log.Info("shutting down server")

	// outstanding requests get 30 seconds
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	a.log.Info("server exited")
	return nil
}
