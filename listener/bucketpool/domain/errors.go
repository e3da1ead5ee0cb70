package domain

import "errors"

// Erros de configuração. São fatais: detectados na validação, nunca em tempo de execução.
var (
	ErrInvalidCapacity      = errors.New("bucket capacity must be >= 1")
	ErrInvalidSweepInterval = errors.New("sweep interval must be > 0")
	ErrMissingResources     = errors.New("resource provider is required")
	ErrMissingLiveness      = errors.New("liveness query is required")
	ErrMissingScheduler     = errors.New("scheduler is required")
	ErrMissingDirectory     = errors.New("directory is required when auto-enroll is enabled")
)
