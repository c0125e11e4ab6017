// Package rod drives headless Chrome through github.com/go-rod/rod to
// render article markup to PDF and, optionally, to fetch pages that need
// JavaScript.
package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Browser is one launched headless Chrome process and its CDP connection.
// Close is safe to call multiple times.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	mu       sync.Mutex
	closed   atomic.Bool
}

// LaunchOption configures how Chrome is launched.
type LaunchOption func(*launcher.Launcher)

// WithBin uses the Chrome binary at path instead of looking one up or
// downloading it.
func WithBin(path string) LaunchOption {
	return func(l *launcher.Launcher) {
		if path != "" {
			l.Bin(path)
		}
	}
}

// WithNoSandbox disables the Chrome sandbox, needed when running as root
// inside containers.
func WithNoSandbox() LaunchOption {
	return func(l *launcher.Launcher) {
		l.NoSandbox(true)
	}
}

// Launch starts a new headless browser with stability flags.
func Launch(opts ...LaunchOption) (*Browser, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	for _, opt := range opts {
		opt(lnchr)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Browser{browser: browser, launcher: lnchr}, nil
}

// Closed reports whether Close has been called.
func (b *Browser) Closed() bool {
	return b.closed.Load()
}

// Close shuts down the browser and kills the launched process.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

// live returns the connected browser, or nil once closed.
func (b *Browser) live() *rod.Browser {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.browser
}
