// Package driven defines the ports the core services require from
// infrastructure adapters: stores, uploads and configuration.
package driven
