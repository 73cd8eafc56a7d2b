package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Similarity service errors
	ErrServiceUnavailable = fmt.Errorf("similarity service unavailable")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Library and input errors
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrMissingColumn  = fmt.Errorf("missing required CSV column")
	ErrMalformedChart = fmt.Errorf("malformed chart file")
	ErrNoChartFile    = fmt.Errorf("no chart file found")
	ErrUnsupported    = fmt.Errorf("unsupported audio format")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
