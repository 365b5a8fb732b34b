//go:build windows

package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/abrezinsky/campusvote/internal/logger"
)

// listenForKeyboard reads line-buffered input; each key needs Enter
func listenForKeyboard(statusURL string, appLog *logger.SlogLogger, quit func()) {
	reader := bufio.NewReader(os.Stdin)
	for {
		r, _, err := reader.ReadRune()
		if err != nil {
			return
		}
		if r == '\r' || r == '\n' {
			continue
		}
		if handleKey(strings.ToLower(string(r)), statusURL, appLog) {
			quit()
			return
		}
	}
}
