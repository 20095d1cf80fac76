package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"donation-service/internal/config"
	"donation-service/internal/database/minio"
	"donation-service/internal/database/postgres"
	"donation-service/internal/database/redis"
	"donation-service/internal/event"
	"donation-service/internal/handlers"
	"donation-service/internal/models"
	"donation-service/internal/repository"
	"donation-service/internal/services"
	"donation-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func setupLogging() {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "/donation/donation_service/log"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("donation_service_%s.log", time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
}

func main() {
	setupLogging()

	cfg := config.New()
	if problems := cfg.CheckSecurity(); len(problems) > 0 {
		for _, p := range problems {
			log.Printf("security config error: %s", p)
		}
		log.Fatal("refusing to start with insecure configuration")
	}

	db, err := postgres.RetryConnectOnFailed(cfg.PostgresCfg, 10, 3*time.Second)
	if err != nil {
		log.Fatalf("database unavailable: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(db); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		log.Printf("redis unavailable, caching disabled: %v", err)
		redisClient = nil
	}

	storage, err := minio.NewMinioService(cfg.MinioCfg)
	if err != nil {
		log.Printf("minio unavailable, uploads disabled: %v", err)
		storage = nil
	}

	var publisher *event.DonationPublisher
	rabbit, err := event.NewRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("rabbitmq unavailable, donation events disabled: %v", err)
	} else {
		defer rabbit.Close()
		publisher, err = event.NewDonationPublisher(rabbit)
		if err != nil {
			log.Printf("failed to declare donation queue, events disabled: %v", err)
		}
	}

	cipher, err := services.NewEmailCipher(cfg.AuthCfg.EmailEncryptionSecret)
	if err != nil {
		log.Fatalf("failed to init email cipher: %v", err)
	}

	adminRepo := repository.NewAdminRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)

	cache := services.NewCacheService(redisClient)
	auditService := services.NewAuditService(auditRepo)
	jwtService := services.NewJWTService(cfg.AuthCfg.JWTSecret)
	authService := services.NewAuthService(adminRepo, jwtService, auditService)
	adminService := services.NewAdminService(adminRepo, auditService)
	campaignService := services.NewCampaignService(campaignRepo, auditService, cache)
	donationService := services.NewDonationService(donationRepo, campaignRepo, cipher, publisher, auditService, cache)
	reportService := services.NewReportService(reportRepo, campaignRepo, auditService, cache)
	verificationService := services.NewVerificationService(verificationRepo, auditService)

	if err := adminService.InitDefaultSuperAdmin(cfg.AuthCfg.AdminEmail, cfg.AuthCfg.AdminPassword); err != nil {
		log.Fatalf("failed to bootstrap super admin: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go worker.NewDailyHashJob(verificationService).Run(ctx)

	authMW := handlers.AuthMiddleware(jwtService)
	superAdminMW := handlers.RequireRole(models.RoleSuperAdmin)

	startedAt := time.Now()
	r := gin.Default()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(startedAt).Round(time.Second).String(),
		})
	})

	handlers.NewAuthHandler(authService).RegisterRoutes(r, authMW)
	handlers.NewAdminUserHandler(adminService).RegisterRoutes(r, authMW, superAdminMW)
	handlers.NewCampaignHandler(campaignService, reportService, storage).RegisterRoutes(r, authMW, superAdminMW)
	handlers.NewDonationHandler(donationService).RegisterRoutes(r, authMW)
	handlers.NewReportHandler(reportService, storage).RegisterRoutes(r, authMW)
	handlers.NewAuditHandler(auditService).RegisterRoutes(r, authMW, superAdminMW)
	handlers.NewVerificationHandler(verificationService).RegisterRoutes(r, authMW, superAdminMW)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("donation service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
