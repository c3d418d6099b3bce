package tui

import "errors"

// ErrMissingProcedureService is returned when the procedure service is not provided.
var ErrMissingProcedureService = errors.New("tui: procedure service is required")

// ErrMissingBuilderService is returned when the builder service is not provided.
var ErrMissingBuilderService = errors.New("tui: builder service is required")

// ErrMissingExecutorService is returned when the executor service is not provided.
var ErrMissingExecutorService = errors.New("tui: executor service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
