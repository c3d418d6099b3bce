// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - ProcedureStore: Procedure template persistence
//   - ExecutionStore: Captured answer-map persistence per work order
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Field lists and answer maps are serialised as JSON
// columns; their shape is owned by the domain package, not the schema.
//
// # Data Location
//
// By default, the database is stored at ~/.proctor/data/proctor.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
