//go:build !linux && !darwin && !windows

package main

import "github.com/abrezinsky/campusvote/internal/logger"

// listenForKeyboard is unavailable on this platform
func listenForKeyboard(statusURL string, appLog *logger.SlogLogger, quit func()) {
	appLog.Info("Keyboard shortcuts are not supported on this platform")
}
