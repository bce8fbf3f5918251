// cmd/chat-cli/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"wealth-assistant/internal/chat/cache"
	"wealth-assistant/internal/chat/classifier"
	"wealth-assistant/internal/chat/dispatch"
	"wealth-assistant/internal/chat/extractor"
	"wealth-assistant/internal/chat/format"
	"wealth-assistant/internal/chat/orchestrator"
	"wealth-assistant/internal/common/config"
	"wealth-assistant/internal/common/database"
	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/genai"
	"wealth-assistant/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	// Keep stdout clean for the conversation; logs go to stderr.
	zapLog := logger.New("warn", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	responseCache := cache.NewMemory(config.GetDuration(cfg.Cache.TTL), cfg.Cache.Capacity)

	completer := genai.NewClient(&genai.Config{
		BaseURL:     cfg.GenAI.BaseURL,
		APIKey:      cfg.GenAI.APIKey,
		Model:       cfg.GenAI.Model,
		Timeout:     config.GetDuration(cfg.GenAI.Timeout),
		MaxRetries:  cfg.GenAI.MaxRetries,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Temperature: cfg.GenAI.Temperature,
	}, log)

	ext, err := extractor.New(log)
	if err != nil {
		zapLog.Fatal("extractor init failed", zap.Error(err))
	}

	o := orchestrator.New(
		responseCache,
		classifier.New(completer, cfg.Classifier.Granularity, log),
		ext,
		dispatch.New(repository.NewPostgres(pg.GetDB(), log), log),
		format.New(),
		completer,
		log,
	)

	fmt.Println("Wealth assistant ready. Type 'exit' or 'quit' to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		message := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(message) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			os.Exit(0)
		case "":
			fmt.Println("Please enter a question.")
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
		answer, err := o.ProcessTurn(turnCtx, message)
		cancel()
		if err != nil {
			fmt.Println("Sorry, something went wrong processing that. Please try again.")
			continue
		}
		fmt.Println(answer)
	}
}
