package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"slimmom.org/internal/auth"
	"slimmom.org/internal/httpapi"
	"slimmom.org/internal/mail"
	"slimmom.org/internal/obs"
	"slimmom.org/internal/product"
)

var (
	version = "1.2.0"
	commit  = "none"
)

type config struct {
	addr          string
	pgDSN         string
	redisAddr     string
	redisPassword string
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	otpTTL        time.Duration
	smtp          mail.SMTPConfig
}

func loadConfig() config {
	cfg := config{
		addr:          envOr("SLIMMOM_ADDR", ":8080"),
		pgDSN:         os.Getenv("SLIMMOM_PG_DSN"),
		redisAddr:     os.Getenv("SLIMMOM_REDIS_ADDR"),
		redisPassword: os.Getenv("SLIMMOM_REDIS_PASSWORD"),
		accessSecret:  os.Getenv("SLIMMOM_ACCESS_SECRET"),
		refreshSecret: os.Getenv("SLIMMOM_REFRESH_SECRET"),
		accessTTL:     envDuration("SLIMMOM_ACCESS_TTL", auth.DefaultAccessTTL),
		refreshTTL:    envDuration("SLIMMOM_REFRESH_TTL", auth.DefaultRefreshTTL),
		otpTTL:        envDuration("SLIMMOM_OTP_TTL", auth.DefaultOTPTTL),
		smtp: mail.SMTPConfig{
			Host:     os.Getenv("SLIMMOM_SMTP_HOST"),
			Port:     envInt("SLIMMOM_SMTP_PORT", 587),
			Username: os.Getenv("SLIMMOM_SMTP_USER"),
			Password: os.Getenv("SLIMMOM_SMTP_PASS"),
			From:     envOr("SLIMMOM_SMTP_FROM", "no-reply@slimmom.org"),
		},
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("parse %s: %v", key, err)
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("parse %s: %v", key, err)
	}
	return n
}

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)
	cfg := loadConfig()

	if cfg.accessSecret == "" || cfg.refreshSecret == "" {
		log.Fatal("SLIMMOM_ACCESS_SECRET and SLIMMOM_REFRESH_SECRET are required")
	}

	var db *sql.DB
	if cfg.pgDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.pgDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	var users auth.UserStore
	var productStore product.Store
	if db != nil {
		users = auth.NewPGUserStore(db)
		productStore = product.NewPGStore(db)
	} else {
		log.Println("SLIMMOM_PG_DSN not set, using in-memory stores")
		users = auth.NewMemoryUserStore()
		productStore = product.NewMemoryStore()
	}

	var sessions auth.SessionStore
	if cfg.redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
		})
		store, err := auth.NewRedisSessionStore(client, cfg.refreshTTL)
		if err != nil {
			log.Fatalf("redis session store: %v", err)
		}
		sessions = store
	} else {
		log.Println("SLIMMOM_REDIS_ADDR not set, using in-memory sessions")
		sessions = auth.NewMemorySessionStore(cfg.refreshTTL)
	}

	var dispatcher mail.Dispatcher
	if cfg.smtp.Host != "" {
		d, err := mail.NewSMTPDispatcher(cfg.smtp)
		if err != nil {
			log.Fatalf("smtp dispatcher: %v", err)
		}
		dispatcher = d
	} else {
		log.Println("SLIMMOM_SMTP_HOST not set, logging verification codes instead of sending")
		dispatcher = mail.NewLogDispatcher()
	}

	tokens, err := auth.NewTokenIssuer(cfg.accessSecret, cfg.refreshSecret)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	authSvc, err := auth.NewService(users, sessions, tokens, dispatcher,
		auth.WithAccessTTL(cfg.accessTTL),
		auth.WithRefreshTTL(cfg.refreshTTL),
		auth.WithOTPTTL(cfg.otpTTL),
	)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	productSvc, err := product.NewService(productStore)
	if err != nil {
		log.Fatalf("product service: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, productSvc)

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting slimmom-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
