package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"reddigram/models"
)

var Env = GetDefaultConfig()

func LoadEnv() error {
	if value := os.Getenv("DB_HOST"); value != "" {
		Env.DBHost = value
	} else {
		zap.S().Fatalf("DB_HOST env is not set")
	}
	if value := os.Getenv("DB_PORT"); value != "" {
		if port, err := strconv.Atoi(value); err == nil {
			Env.DBPort = port
		} else {
			zap.S().Fatal("DB_PORT env is not a valid integer")
		}
	} else {
		zap.S().Fatalf("DB_PORT env is not set")
	}
	if value := os.Getenv("DB_NAME"); value != "" {
		Env.DBName = value
	} else {
		zap.S().Fatal("DB_NAME env is not set")
	}
	if value := os.Getenv("DB_USER"); value != "" {
		Env.DBUser = value
	} else {
		zap.S().Fatalf("DB_USER env is not set")
	}
	if value := os.Getenv("DB_PASSWORD"); value != "" {
		Env.DBPassword = value
	} else {
		zap.S().Fatalf("DB_PASSWORD env is not set")
	}
	if value := os.Getenv("BOT_TOKEN"); value != "" {
		Env.BotToken = value
	} else {
		zap.S().Fatalf("BOT_TOKEN env is not set")
	}
	if value := os.Getenv("OWNER_CHAT_ID"); value != "" {
		if chatID, err := strconv.ParseInt(value, 10, 64); err == nil {
			Env.OwnerChatID = chatID
		} else {
			zap.S().Fatal("OWNER_CHAT_ID env is not a valid integer")
		}
	} else {
		zap.S().Warnf("OWNER_CHAT_ID is not set, error reports are disabled")
	}
	if value := os.Getenv("REDDIT_CLIENT_ID"); value != "" {
		Env.RedditClientID = value
	} else {
		zap.S().Warnf("REDDIT_CLIENT_ID is not set, using the anonymous reddit API")
	}
	if value := os.Getenv("REDDIT_CLIENT_SECRET"); value != "" {
		Env.RedditClientSecret = value
	}
	if value := os.Getenv("POSTERS_FILE"); value != "" {
		Env.PostersFile = value
	} else {
		zap.S().Warnf("POSTERS_FILE is not set, using default %s", Env.PostersFile)
	}
	if value := os.Getenv("POLL_INTERVAL"); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			Env.PollInterval = time.Duration(minutes) * time.Minute
		} else {
			zap.S().Fatal("POLL_INTERVAL env is not a valid integer")
		}
	} else {
		zap.S().Warnf("POLL_INTERVAL is not set, using default %s", Env.PollInterval)
	}
	if value := os.Getenv("POST_DELAY"); value != "" {
		if delay, err := time.ParseDuration(value); err == nil {
			Env.PostDelay = delay
		} else {
			zap.S().Fatalf("POST_DELAY env is not a valid duration: %v", err)
		}
	}
	return nil
}

func GetDefaultConfig() *models.EnvConfig {
	return &models.EnvConfig{
		DBHost: "localhost",
		DBPort: 3306,
		DBName: "reddigram",
		DBUser: "reddigram",

		PostersFile:  "posters.yaml",
		PollInterval: 30 * time.Minute,
		PostDelay:    5 * time.Second,
	}
}
