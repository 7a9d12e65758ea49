package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/config"
	"github.com/sangkips/phoneshop-pos/internal/infrastructure/database"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/handler"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/routes"
	"github.com/sangkips/phoneshop-pos/pkg/currency"
	"github.com/sangkips/phoneshop-pos/pkg/printer"
	"github.com/sangkips/phoneshop-pos/pkg/realtime"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	idempotencyCleanupInterval = time.Hour
	shutdownTimeout            = 10 * time.Second
)

func newServeCmd(envFile *string) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB(*envFile, !skipMigrate)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := database.SeedDefaultData(db); err != nil {
				log.Printf("Warning: Failed to seed default data: %v", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, db)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run migrations on start")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRepos(db)
	hub := realtime.NewHub(cfg.Realtime.Buffer)

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.App.Name,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	money, err := currency.New(cfg.Shop.Currency)
	if err != nil {
		return err
	}

	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
		cfg.Printer.Type = "none"
	}

	authService := service.NewAuthService(r.tx, r.users, r.profiles, jwtManager)
	profileService := service.NewProfileService(r.profiles)
	userService := service.NewUserService(r.users)
	productService := service.NewProductService(r.products, hub)
	customerService := service.NewCustomerService(r.tx, r.customers, r.loans, hub)
	saleService := service.NewSaleService(r.tx, r.products, r.customers, r.loans, r.sales, hub)
	lossService := service.NewLossService(r.losses, r.products, hub)
	reportService := service.NewReportService(r.products, r.sales, r.customers, r.losses)
	receiptService := service.NewReceiptService(thermalPrinter, r.sales, r.users, r.profiles, money, service.ReceiptOptions{
		PrinterType: cfg.Printer.Type,
		Width:       cfg.Printer.Width,
		ShopName:    cfg.Shop.Name,
		Footer:      cfg.Shop.Footer,
	})

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Profile:  handler.NewProfileHandler(profileService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Sale:     handler.NewSaleHandler(saleService),
		Loss:     handler.NewLossHandler(lossService),
		Report:   handler.NewReportHandler(reportService),
		Receipt:  handler.NewReceiptHandler(receiptService),
		Realtime: handler.NewRealtimeHandler(hub, cfg.Realtime.Heartbeat),
		User:     handler.NewUserHandler(userService),
	}

	limiter := routes.NewRateLimiter(&cfg.RateLimit)
	defer limiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: r.idempotency,
		RateLimiter:     limiter,
	})

	go cleanupIdempotencyKeys(ctx, r)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(hub.Close)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cleanupIdempotencyKeys(ctx context.Context, r *repos) {
	ticker := time.NewTicker(idempotencyCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.idempotency.DeleteExpired(ctx)
			if err != nil {
				log.Printf("Warning: Failed to delete expired idempotency keys: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Deleted %d expired idempotency keys", n)
			}
		}
	}
}
