// Package timeouts defines shared timeout constants used across commands.
// Centralizing these values keeps agent budgets and shutdown waits
// discoverable.
package timeouts

import "time"

// Decision caps the wall-clock time an agent gets for one action.
const Decision = 200 * time.Millisecond

// ProcessStart limits how long a subprocess agent may take to report ready.
const ProcessStart = 2 * time.Second

// Shutdown limits how long a command waits for in-flight work and telemetry
// flushes during graceful shutdown.
const Shutdown = 5 * time.Second

// ReadHeader limits how long the HTTP transport waits for request headers.
const ReadHeader = 10 * time.Second
