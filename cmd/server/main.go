package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kelompok/venuehub/internal/booking"
	"github.com/kelompok/venuehub/internal/config"
	"github.com/kelompok/venuehub/internal/database"
	"github.com/kelompok/venuehub/internal/handler"
	"github.com/kelompok/venuehub/internal/queue"
	"github.com/kelompok/venuehub/internal/repository"
	"github.com/kelompok/venuehub/internal/router"
	"github.com/kelompok/venuehub/internal/schedule"
	"github.com/kelompok/venuehub/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	reports := repository.NewDamageReportRepo(db)

	engine := booking.NewEngine(bookings, schedule.NewIndex(), cfg.AllowPastBookings)
	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := engine.Warm(warmCtx); err != nil {
		cancel()
		log.Fatalf("warm interval index: %v", err)
	}
	cancel()
	reportSvc := booking.NewReports(reports)

	var uploader storage.Uploader
	if cli := storage.NewClient(cfg.SupabaseURL, cfg.SupabaseKey); cli != nil {
		uploader = cli
	} else {
		log.Println("supabase storage not configured: uploads disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(rooms, bookings)
	studentH := handler.NewStudentHandler(engine, bookings)
	adminRoomH := handler.NewAdminRoomHandler(rooms)
	adminBookingH := handler.NewAdminBookingHandler(engine, bookings, rooms, cfg.AMQPURL)
	reportH := handler.NewReportHandler(reportSvc, rooms)
	uploadH := handler.NewUploadHandler(uploader)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, rdb)
	router.RegisterStudent(e, studentH, reportH, uploadH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminRoomH, adminBookingH, reportH, cfg.JWTSecret)

	// Decision log consumer; runs its own reconnect loop forever.
	go func() {
		if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
