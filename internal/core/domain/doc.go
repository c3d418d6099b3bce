// Package domain contains the core business entities for procedures,
// fields and captured answers. It has no dependencies on adapters or
// external services.
package domain
