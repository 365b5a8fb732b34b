//go:build linux

package main

import (
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/abrezinsky/campusvote/internal/logger"
)

// listenForKeyboard reads single keys from a raw terminal until quit
func listenForKeyboard(statusURL string, appLog *logger.SlogLogger, quit func()) {
	fd := int(os.Stdin.Fd())
	var oldState syscall.Termios
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TCGETS, uintptr(unsafe.Pointer(&oldState))); errno != 0 {
		// Not a terminal
		return
	}

	// Keep OPOST so \n still moves to column zero
	newState := oldState
	newState.Lflag &^= syscall.ICANON | syscall.ECHO
	newState.Cc[syscall.VMIN] = 1
	newState.Cc[syscall.VTIME] = 0
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TCSETS, uintptr(unsafe.Pointer(&newState))); errno != 0 {
		return
	}
	restore := func() {
		syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TCSETS, uintptr(unsafe.Pointer(&oldState)))
	}
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
