package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"photos/config"
	"photos/controllers"
	"photos/middleware"
	"photos/router"
	"photos/services/photo"
	"photos/services/storage"
	"photos/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// ServeOptions defines the options for the `serve` command.
type ServeOptions struct {
	cfg *config.Config

	EnvFile string
	Port    string
}

const serveExample = `  # Start with credentials from ./.env
  photos serve

  # Start on a custom port with a specific env file
  photos serve --port 9090 --env-file /etc/photos.env`

func NewServeOptions() *ServeOptions {
	return &ServeOptions{}
}

func NewServeCommand(o *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the photo upload HTTP server",
		Example: serveExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&o.EnvFile, "env-file", "e", ".env", "File of KEY=VALUE lines loaded into the environment if present")
	cmd.Flags().StringVarP(&o.Port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}

// Complete loads the env file, when present, and then the configuration.
// Variables already set in the environment win over the file.
func (o *ServeOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %q: %w", o.EnvFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if o.Port != "" {
		cfg.Port = o.Port
	}
	o.cfg = cfg
	return nil
}

func (o *ServeOptions) Validate() error {
	if o.cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return o.cfg.Validate()
}

func (o *ServeOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	utils.SetupLogging()
	cfg := o.cfg
	log.Printf("Photo service starting up...")

	storageLogger := utils.NewCustomLogger("STORAGE")
	objects, err := storage.NewObjectStore(ctx, cfg, storageLogger)
	if err != nil {
		return fmt.Errorf("failed to initialise object store: %w", err)
	}
	share, err := storage.NewFileShare(cfg, storageLogger)
	if err != nil {
		return fmt.Errorf("failed to initialise file share: %w", err)
	}
	log.Printf("Object store: %s, file share: %s", objects.Name(), share.Name())

	engine := newEngine(cfg, objects, share)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// newEngine wires the gin router with the photo service built on the given
// backends.
func newEngine(cfg *config.Config, objects storage.ObjectStore, share storage.FileShare) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(utils.NewCustomLogger("HTTP")))
	engine.MaxMultipartMemory = cfg.MaxUploadMemoryMB << 20

	if cfg.CorsOrigin != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{cfg.CorsOrigin}
		corsConfig.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
		engine.Use(cors.New(corsConfig))
	}

	photoLogger := utils.NewCustomLogger("PHOTO")
	photoService := photo.NewService(objects, share, cfg.SignedURLTTL, photoLogger)

	router.RegisterRoutes(engine,
		controllers.NewHealthController(versionInfo(), objects.Name(), share.Name()),
		controllers.NewPhotoController(photoService, photoLogger),
		middleware.NewRateLimiter(cfg.UploadRateLimit),
	)

	return engine
}
