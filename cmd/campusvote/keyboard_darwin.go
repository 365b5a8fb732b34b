//go:build darwin

package main

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/abrezinsky/campusvote/internal/logger"
)

// listenForKeyboard reads single keys from a raw terminal until quit
func listenForKeyboard(statusURL string, appLog *logger.SlogLogger, quit func()) {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		// Not a terminal
		return
	}

	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TIOCSETA, &newState); err != nil {
		return
	}
	restore := func() { unix.IoctlSetTermios(fd, unix.TIOCSETA, oldState) }
	defer restore()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if handleKey(strings.ToLower(string(buf[0])), statusURL, appLog) {
			restore()
			quit()
			return
		}
	}
}
