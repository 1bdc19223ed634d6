package main

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"task-gateway/config"
	"task-gateway/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("load .env: %v", err)
	}
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("storage init starting")

	connStr := os.Getenv("STORAGE_CONNECTION_STRING")
	if connStr == "" {
		log.Fatal("missing STORAGE_CONNECTION_STRING")
	}

	err := storage.Provision(context.Background(), connStr, storage.Resources{
		TasksTable:      config.EnvString("TASKS_TABLE", config.DefaultTasksTable),
		TaskQueue:       config.EnvString("TASK_QUEUE", config.DefaultTaskQueue),
		ImagesContainer: config.EnvString("IMAGES_CONTAINER", config.DefaultImagesContainer),
	})
	if err != nil {
		log.Fatalf("provision: %v", err)
	}

	log.Info("storage init complete")
}
