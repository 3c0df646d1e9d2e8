package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"reddigram/bot"
	"reddigram/config"
	"reddigram/database"
	"reddigram/logger"
	"reddigram/poster"
	"reddigram/reddit"
	"reddigram/util"
)

func main() {
	// load environment variables before the logger so LOG_LEVEL applies
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		panic(err)
	}
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	config.LoadEnv()

	posters, err := config.LoadPosters(config.Env.PostersFile)
	if err != nil {
		zap.S().Fatalf("failed to load posters: %v", err)
	}
	zap.S().Infof("loaded %d posters", len(posters))

	if !util.CheckFFmpeg() {
		zap.S().Warn("ffmpeg not found in PATH, large videos will be skipped")
	}

	database.Start()

	tgBot, err := bot.NewBot(config.Env.BotToken)
	if err != nil {
		zap.S().Fatalf("failed to create bot: %v", err)
	}
	zap.S().Infof("logged in as @%s", tgBot.Username)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	runner := &poster.Runner{
		Reddit:  reddit.NewClient(config.Env.RedditClientID, config.Env.RedditClientSecret),
		Sender:  &bot.Sender{Bot: tgBot},
		Store:   database.Sent{},
		Posters: posters,
		OwnerID: config.Env.OwnerChatID,
		Delay:   config.Env.PostDelay,
	}
	runner.Start(ctx, config.Env.PollInterval)
}
