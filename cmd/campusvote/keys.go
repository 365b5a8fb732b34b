package main

import (
	"fmt"

	"github.com/abrezinsky/campusvote/internal/browser"
	"github.com/abrezinsky/campusvote/internal/logger"
)

// handleKey runs a shortcut and reports whether the server should stop
func handleKey(key, statusURL string, appLog *logger.SlogLogger) bool {
	switch key {
	case "s":
		fmt.Printf("%sOpening server status in browser...%s\n", cyan, reset)
		if err := browser.Open(statusURL); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		toggleHTTPLogging(appLog)
	case "l":
		cycleLogLevel(appLog)
	case "?":
		printKeyboardHelp()
	case "q", "\x03":
		fmt.Printf("%sShutting down server...%s\n", yellow, reset)
		return true
	}
	return false
}

func toggleHTTPLogging(appLog *logger.SlogLogger) {
	if appLog.IsHTTPLoggingEnabled() {
		appLog.DisableHTTPLogging()
		fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		return
	}
	appLog.EnableHTTPLogging()
	fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
}
