package config

import "sync"

// RuntimeSettings holds loop configuration that may change at runtime
type RuntimeSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 = uncapped
	showHUD  bool
}

var globalRuntimeSettings = &RuntimeSettings{}

// Apply copies the runtime-mutable parts of s into the package globals.
func Apply(s Settings) {
	SetFPSLimit(s.Loop.FPSLimit)
	SetShowHUD(s.Loop.ShowHUD)
}

// GetFPSLimit returns the frame cap, 0 meaning uncapped
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRuntimeSettings.fpsLimit = limit
}

// GetShowHUD reports whether the heading/FPS overlay is drawn
func GetShowHUD() bool {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.showHUD
}

func SetShowHUD(show bool) {
	globalRuntimeSettings.mu.Lock()
	globalRuntimeSettings.showHUD = show
	globalRuntimeSettings.mu.Unlock()
}

// ToggleHUD flips the overlay and returns the new value
func ToggleHUD() bool {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.showHUD = !globalRuntimeSettings.showHUD
	return globalRuntimeSettings.showHUD
}
