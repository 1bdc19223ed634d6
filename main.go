package main

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"task-gateway/api"
	"task-gateway/config"
	"task-gateway/notify"
	"task-gateway/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := newLogger(cfg)

	store, err := storage.New(cfg.StorageConnectionString, cfg.TasksTable, cfg.TaskQueue, cfg.ImagesContainer)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	rc := redis.NewClient(notify.RedisOptions(cfg.RedisConnectionString))
	publisher := notify.NewPublisher(rc, cfg.NotificationTopic, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.BodyLimit("50M"))
	e.Use(echoprometheus.NewMiddleware("task_gateway"))
	e.GET("/metrics", echoprometheus.NewHandler())

	api.Register(e, api.Backends{
		Tasks:  store.Tasks,
		Queue:  store.Queue,
		Topic:  publisher,
		Images: store.Images,
	}, logger)

	logger.WithFields(log.Fields{
		"port":      cfg.Port,
		"table":     cfg.TasksTable,
		"queue":     cfg.TaskQueue,
		"container": cfg.ImagesContainer,
		"topic":     cfg.NotificationTopic,
	}).Info("task gateway starting")

	e.Logger.Fatal(e.Start(cfg.ListenAddr()))
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.New()
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.LogFile != "" {
		logger.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}))
	}
	return logger
}
