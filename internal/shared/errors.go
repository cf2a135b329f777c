package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Run-aborting errors
	ErrInputNotFound = fmt.Errorf("input file not found")
	ErrInvalidInput  = fmt.Errorf("invalid input document")
	ErrOutputDir     = fmt.Errorf("output directory unavailable")
	ErrWriteOutput   = fmt.Errorf("failed to write output")

	// External database errors
	ErrTransientFailure   = fmt.Errorf("transient failure")
	ErrFatalFailure       = fmt.Errorf("fatal query failure")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
