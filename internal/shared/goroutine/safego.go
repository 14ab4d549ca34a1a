// Package goroutine wraps goroutine launches with panic recovery.
package goroutine

import (
	"runtime/debug"

	"sentra/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine. A panic inside fn is logged with its
// stack under the given name instead of taking the process down; background
// work like push fan-out and notification emails must never crash the server.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("background task panicked",
					"task", name,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
