package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abrezinsky/campusvote/internal/app"
	"github.com/abrezinsky/campusvote/internal/auth"
	"github.com/abrezinsky/campusvote/internal/config"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/pkg/roster"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var version = "dev"

func showBanner() {
	logo := []string{
		"   ___                              __     __    _       ",
		"  / __\\__ _ _ __ ___  _ __  _   _ __\\ \\   / /__ | |_ ___ ",
		" / /  / _` | '_ ` _ \\| '_ \\| | | / __\\ \\ / / _ \\| __/ _ \\",
		"/ /__| (_| | | | | | | |_) | |_| \\__ \\\\ V / (_) | ||  __/",
		"\\____/\\__,_|_| |_| |_| .__/ \\__,_|___/ \\_/ \\___/ \\__\\___|",
		"                     |_|                                 ",
	}
	fmt.Println()
	for _, line := range logo {
		fmt.Printf("  %s%s%s\n", yellow, line, reset)
	}
	fmt.Printf("  %sschool elections, kiosks and canteen sign-in%s\n\n", cyan, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}
	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %ss%s      - Open server status in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

// usageFooter follows the flag defaults printed for -help
func usageFooter() {
	fmt.Fprintf(os.Stderr, `
CampusVote - school elections with kiosk check-in

Every option can also be set through the environment or a .env file
(PORT, DB_PATH, ADMIN_PASSWORD, LOG_LEVEL, LOG_FORMAT, ROSTER_URL,
ROSTER_TOKEN, BASE_URL, KIOSK_RESET_DELAY, PHASE_INTERVAL).

Examples:
  campusvote                                  # port 8081, campusvote.db
  campusvote -port 8080 -db /data/school.db
  campusvote -roster https://sis.school.test  # resolve students remotely
  campusvote -logformat json -nokeyboard      # headless deployment

`)
}

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatal("Failed to read .env: ", err)
	}

	cfg, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		usageFooter()
		os.Exit(0)
	}
	if err != nil {
		log.Fatal(err)
	}

	if cfg.ShowVersion {
		fmt.Printf("campusvote %s\n", version)
		os.Exit(0)
	}

	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})
	if cfg.LogFormat == "text" {
		showBanner()
	}

	password := cfg.AdminPassword
	generated := password == ""
	if generated {
		password = auth.GeneratePassword()
	}
	adminAuth, err := auth.New(password)
	if err != nil {
		log.Fatal("Failed to set up admin auth: ", err)
	}

	opts := app.Options{
		DBPath:          cfg.DBPath,
		KioskResetDelay: cfg.KioskResetDelay,
		PhaseInterval:   cfg.PhaseInterval,
	}
	if cfg.RosterURL != "" {
		client := roster.NewHTTPClient(cfg.RosterURL, appLog)
		if cfg.RosterToken != "" {
			client.SetToken(cfg.RosterToken)
		}
		opts.Roster = client
		appLog.Info("Roster service configured", "url", cfg.RosterURL)
	}

	a, err := app.New(appLog, opts, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	if generated {
		appLog.Info("Admin password", "password", password)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.NoKeyboard {
		printKeyboardHelp()
		statusURL := strings.TrimRight(cfg.BaseURL, "/") + "/healthz"
		go listenForKeyboard(statusURL, appLog, stop)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := a.Run(ctx, addr, cfg.BaseURL); err != nil {
		appLog.Error("Server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
}
