package main

import (
	"fmt"
	"log"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ChanaPCN/parkify-app/internal/config"
	"github.com/ChanaPCN/parkify-app/internal/handlers"
	"github.com/ChanaPCN/parkify-app/internal/repositories"
	"github.com/ChanaPCN/parkify-app/internal/services"
	"github.com/ChanaPCN/parkify-app/internal/storage"
	"github.com/ChanaPCN/parkify-app/utils"
)

type application struct {
	errorLog           *log.Logger
	infoLog            *log.Logger
	db                 *sqlx.DB
	tokens             *utils.Manager
	limiter            *ipRateLimiter
	wsManager          *WebSocketManager
	complaintHandler   *handlers.ComplaintHandler
	lessorHandler      *handlers.LessorHandler
	reservationHandler *handlers.ReservationHandler
	parkingLotHandler  *handlers.ParkingLotHandler
	navHandler         *handlers.NavHandler
}

func initializeApp(cfg config.Config, db *sqlx.DB, rdb *redis.Client, store storage.ObjectStore, errorLog, infoLog *log.Logger) (*application, error) {
	tokens, err := utils.NewManager(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	// Repositories
	complaintRepo := repositories.ComplaintRepository{DB: db}
	lessorRepo := repositories.LessorRepository{DB: db}
	reservationRepo := repositories.ReservationRepository{DB: db}
	parkingLotRepo := repositories.ParkingLotRepository{DB: db}

	// Shared redis-backed helpers
	confirmations := &services.ConfirmationService{Redis: rdb, TTL: cfg.ConfirmationTTL}
	idempotency := &services.IdempotencyStore{Redis: rdb, TTL: cfg.IdempotencyTTL, ErrorLog: errorLog}

	wsManager := NewWebSocketManager(infoLog, errorLog)

	// Services
	complaintService := &services.ComplaintService{ComplaintRepo: &complaintRepo, Confirmations: confirmations}
	lessorService := &services.LessorService{LessorRepo: &lessorRepo, Confirmations: confirmations}
	uploadService := &services.UploadService{
		Store:         store,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		Lessors:       &lessorRepo,
		Idempotency:   idempotency,
		ErrorLog:      errorLog,
	}
	reservationService := &services.ReservationService{
		ReservationRepo: &reservationRepo,
		ParkingLotRepo:  &parkingLotRepo,
		Notifier:        wsManager,
		Idempotency:     idempotency,
		ErrorLog:        errorLog,
	}

	return &application{
		errorLog:  errorLog,
		infoLog:   infoLog,
		db:        db,
		tokens:    tokens,
		limiter:   newIPRateLimiter(cfg.Limits.RateLimitRPS, cfg.Limits.RateLimitBurst),
		wsManager: wsManager,

		complaintHandler: &handlers.ComplaintHandler{Service: complaintService},
		lessorHandler: &handlers.LessorHandler{
			Service:        lessorService,
			Uploads:        uploadService,
			MaxUploadBytes: cfg.Limits.MaxUploadBytes,
		},
		reservationHandler: &handlers.ReservationHandler{Service: reservationService},
		parkingLotHandler:  &handlers.ParkingLotHandler{Service: reservationService},
		navHandler:         &handlers.NavHandler{},
	}, nil
}

func openDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "mysql" {
		// created_at is scanned into time.Time
		if mcfg, err := mysql.ParseDSN(dsn); err == nil {
			mcfg.ParseTime = true
			dsn = mcfg.FormatDSN()
		}
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func openStore(cfg config.Config) (storage.ObjectStore, error) {
	s := cfg.Storage
	switch s.Driver {
	case "minio":
		store, err := storage.NewMinioStore(s.Endpoint, s.AccessKey, s.SecretKey, s.Bucket, s.PublicBaseURL, s.UseSSL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := storage.NewS3Store(s.Endpoint, s.Region, s.AccessKey, s.SecretKey, s.Bucket, s.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", s.Driver)
	}
}
