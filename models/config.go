package models

import "time"

type EnvConfig struct {
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	BotToken    string
	OwnerChatID int64

	RedditClientID     string
	RedditClientSecret string

	PostersFile  string
	PollInterval time.Duration
	PostDelay    time.Duration
}
