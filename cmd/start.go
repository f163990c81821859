package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dispatch-core/core/broadcast"
	"dispatch-core/core/config"
	"dispatch-core/core/database"
	"dispatch-core/core/loader"
	"dispatch-core/core/logger"
	"dispatch-core/core/middleware/auth"
	"dispatch-core/core/middleware/rayid"
	"dispatch-core/core/storage"

	"dispatch-core/feature/calls"
	"dispatch-core/feature/jail"
	"dispatch-core/feature/units"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Dispatch Core API
// @version 1.0
// @description API for role-play computer-aided dispatch.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dispatch server",
	Long:  `Starts the HTTP server, the websocket broadcast hub, and all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		// Features that need persistence disable themselves without it, which
		// leaves the websocket hub usable for manual testing.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to dispatch database")
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Broadcast Hub (+ optional event archive)
		hub := broadcast.NewHub(logg)
		if cfg.Broadcast.ArchiveEnabled {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			archive := broadcast.NewArchive(store, cfg.Storage.Bucket, logg)
			if err := archive.EnsureBucket(context.Background()); err != nil {
				logg.Fatal("Failed to prepare event archive", zap.Error(err))
			}
			hub.AddSink(archive)
			logg.Info("Event archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(units.NewFeature(db, hub, logg))
		mgr.Register(calls.NewFeature(db, hub, logg))
		mgr.Register(jail.NewFeature(db, hub, logg))

		// Middleware Registration
		// RayID must come first so every request is traceable.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Browser websocket clients cannot send custom headers, so the
		// subscribe route sits outside the API-key gate.
		app.Get(cfg.Broadcast.Path, broadcast.Upgrade(), hub.Handler())

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
