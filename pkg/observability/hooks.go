// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about playback, cache operations, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the playback
// engine free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPlaybackHooks(&myPlaybackHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Playback().OnFrameChange(player, index, total, observability.CauseTimer)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Playback Hooks
// =============================================================================

// Cause describes what moved a player to a new frame.
type Cause string

const (
	CauseTimer Cause = "timer" // scheduled advance while playing
	CauseStep  Cause = "step"  // step forward or backward
	CauseSeek  Cause = "seek"  // goToFrame
	CauseReset Cause = "reset" // reset or replay from the start
)

// PlaybackHooks receives events from playback controllers.
type PlaybackHooks interface {
	// OnFrameChange records an actual index change.
	OnFrameChange(player string, index, total int, cause Cause)

	// OnStateChange records a transition between playing and stopped.
	OnStateChange(player string, playing bool)

	// OnSchedule records a timer armed for the next advance.
	OnSchedule(player string, index int, delay time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records a completed API request.
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnStreamClient records a websocket client connecting or leaving.
	OnStreamClient(ctx context.Context, clientID string, connected bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlaybackHooks is a no-op implementation of PlaybackHooks.
type NoopPlaybackHooks struct{}

func (NoopPlaybackHooks) OnFrameChange(string, int, int, Cause) {}
func (NoopPlaybackHooks) OnStateChange(string, bool)            {}
func (NoopPlaybackHooks) OnSchedule(string, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnStreamClient(context.Context, string, bool)                  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	playbackHooks PlaybackHooks = NoopPlaybackHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPlaybackHooks registers custom playback hooks.
// This should be called once at application startup before any player is created.
func SetPlaybackHooks(h PlaybackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playbackHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Playback returns the registered playback hooks.
func Playback() PlaybackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playbackHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	playbackHooks = NoopPlaybackHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
