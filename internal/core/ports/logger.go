package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	// Warn reports a non-fatal condition, such as an optional input compiled to an empty value.
	Warn(msg string)
	Error(err error)
}
