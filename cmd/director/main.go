package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"director-server/internal/config"
	"director-server/internal/generator"
	"director-server/internal/logger"
	"director-server/internal/service"
	"director-server/internal/session"
	"director-server/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	exportDir := flag.String("out", ".", "Directory exported scripts are written to")
	logPath := flag.String("log", "director.log", "Log file (the terminal is owned by the UI)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: logger.EncodingJSON, OutputPath: *logPath, Service: "director-tui"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var aiClient service.AIClient
	if cfg.HasCredential() {
		aiClient, err = service.NewAIClient(ctx, cfg, zapLogger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize AI client: %v\n", err)
			os.Exit(1)
		}
	}
	gen := generator.NewClient(aiClient, cfg.AITemperature, cfg.AITimeout, zapLogger)

	machine := session.NewMachine("terminal", gen, zapLogger)
	defer machine.Close()

	program := tea.NewProgram(tui.NewModel(machine, *exportDir))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		zapLogger.Error("TUI exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
