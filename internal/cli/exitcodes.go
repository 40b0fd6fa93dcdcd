package cli

import (
	"errors"

	"github.com/lcalzada-xor/apcaps/internal/adapters/dissector"
	"github.com/lcalzada-xor/apcaps/internal/app"
	"github.com/lcalzada-xor/apcaps/internal/config"
	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// Exit codes for the apcaps CLI
const (
	// ExitSuccess indicates the report was produced
	ExitSuccess = 0

	// ExitFailure indicates an unexpected error
	ExitFailure = 1

	// ExitNoFrame indicates no beacon or probe response matched, or no
	// stored report has the requested ID
	ExitNoFrame = 2

	// ExitConfigError indicates a configuration or usage error
	ExitConfigError = 3

	// ExitToolError indicates tshark is missing or failed
	ExitToolError = 4
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, domain.ErrNoFrame), errors.Is(err, domain.ErrReportNotFound):
		return ExitNoFrame
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, domain.ErrInvalidSelector),
		errors.Is(err, app.ErrNoInput),
		errors.Is(err, app.ErrConflictingInput):
		return ExitConfigError
	case errors.Is(err, dissector.ErrToolNotFound):
		return ExitToolError
	default:
		return ExitFailure
	}
}
