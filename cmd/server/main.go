package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school-attendance-api/internal/auth"
	"school-attendance-api/internal/config"
	"school-attendance-api/internal/database"
	"school-attendance-api/internal/handlers"
	"school-attendance-api/internal/kiosk"
	"school-attendance-api/internal/localstore"
	"school-attendance-api/internal/realtime"
	"school-attendance-api/internal/remote"
	"school-attendance-api/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	local, err := localstore.OpenFile(cfg.LocalStorePath, cfg.LocalStoreQuota)
	if err != nil {
		log.Fatal("Failed to open local store: ", err)
	}
	defer local.Close()

	deps := routes.Deps{
		Tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL),
		Hub:    realtime.NewHub(),
		Clock:  handlers.Clock{Location: loc},
	}

	var rs remote.Store
	switch cfg.Mode {
	case config.ModeCentral:
		db, err := database.OpenCentral(cfg.DatabasePath)
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		bootstrapAdmin(db, cfg)
		deps.DB = db
		deps.Central = remote.NewGormStore(db)
		deps.Caches = handlers.NewCaches(local)
		go deps.Caches.RunJanitor(ctx, time.Minute)
		rs = deps.Central
	case config.ModeKiosk:
		rs = remote.NewHTTPStore(cfg.RemoteURL, cfg.RemoteToken, cfg.RemoteTimeout)
	}

	svc, err := kiosk.New(kiosk.Options{
		Remote:       rs,
		Storage:      local,
		Location:     loc,
		SyncInterval: cfg.SyncInterval,
		QueueRetain:  cfg.QueueRetain,
	})
	if err != nil {
		log.Fatal(err)
	}
	deps.Kiosk = svc

	ginRoutes := routes.SetupRoutes(deps)

	if err := svc.Preload(ctx); err != nil {
		log.Printf("[kiosk] initial preload failed, serving the stored snapshot: %v", err)
	}
	go svc.Run(ctx)

	srv := &http.Server{Addr: cfg.Addr, Handler: ginRoutes}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server starting on %s in %s mode", cfg.Addr, cfg.Mode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server: ", err)
	}
	log.Printf("Server stopped, %d check-ins pending", svc.PendingCount())
}

func bootstrapAdmin(db *gorm.DB, cfg config.Config) {
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatal("Failed to hash admin password: ", err)
	}
	created, err := database.EnsureAdmin(db, uuid.NewString(), cfg.AdminUsername, hash)
	if err != nil {
		log.Fatal("Failed to create admin user: ", err)
	}
	if created {
		log.Printf("Created admin user %q", cfg.AdminUsername)
	}
}
