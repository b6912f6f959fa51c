package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu      sync.Mutex
	crashRestore func()
	crashOutput  io.Writer = os.Stderr
	crashExit              = os.Exit
)

// SetCrashRestore registers the terminal restore hook run before a crash report
// The host passes screen.Fini so the report lands on a sane terminal
func SetCrashRestore(restore func()) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashRestore = restore
}

// HandleCrash is the unified panic handler that restores the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	restore := crashRestore
	crashRestore = nil
	crashMu.Unlock()

	if restore != nil {
		restore()
	}

	// Use \r\n for raw mode compatibility to avoid zig-zag output
	fmt.Fprintf(crashOutput, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashOutput, "Stack Trace:\r\n%s\r\n", debug.Stack())

	crashExit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
