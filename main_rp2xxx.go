//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"
)

const bootDelay = 2 * time.Second

// runContext never ends on the MCU; the loop runs until reset or power loss.
func runContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}
