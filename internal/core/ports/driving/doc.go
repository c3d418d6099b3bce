// Package driving defines the ports through which user-facing adapters
// (CLI, TUI) drive the core services.
package driving
