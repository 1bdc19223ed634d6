// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Resource names used when the environment does not override them.
const (
	DefaultTasksTable        = "ShoppingTasks"
	DefaultTaskQueue         = "shopping-queue"
	DefaultImagesContainer   = "shopping-images"
	DefaultNotificationTopic = "shopping-notifications"
	DefaultPort              = "3000"
)

// Config holds the settings read at startup.
type Config struct {
	StorageConnectionString string
	RedisConnectionString   string
	TasksTable              string
	TaskQueue               string
	ImagesContainer         string
	NotificationTopic       string
	Port                    string
	Debug                   bool
	LogFile                 string
}

// Load reads the configuration from environment variables, applying defaults
// for resource names.
func Load() (Config, error) {
	cfg := Config{
		StorageConnectionString: os.Getenv("STORAGE_CONNECTION_STRING"),
		RedisConnectionString:   os.Getenv("REDIS_CONNECTION_STRING"),
		TasksTable:              EnvString("TASKS_TABLE", DefaultTasksTable),
		TaskQueue:               EnvString("TASK_QUEUE", DefaultTaskQueue),
		ImagesContainer:         EnvString("IMAGES_CONTAINER", DefaultImagesContainer),
		NotificationTopic:       EnvString("NOTIFICATION_TOPIC", DefaultNotificationTopic),
		Port:                    EnvString("PORT", DefaultPort),
		LogFile:                 os.Getenv("LOG_FILE"),
	}
	if cfg.StorageConnectionString == "" {
		return Config{}, errors.New("missing storage config")
	}
	if cfg.RedisConnectionString == "" {
		return Config{}, errors.New("missing redis config")
	}
	if n, err := strconv.Atoi(cfg.Port); err != nil || n <= 0 || n > 65535 {
		return Config{}, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if v := os.Getenv("DEBUG"); v != "" {
		dbg, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEBUG: %v", err)
		}
		cfg.Debug = dbg
	}
	return cfg, nil
}

// ListenAddr is the address the HTTP server binds to.
func (c Config) ListenAddr() string {
	return ":" + c.Port
}

// EnvString returns the named variable, or def when it is unset or empty.
func EnvString(name, def string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return def
}
