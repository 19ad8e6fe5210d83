package main

import (
	"errors"

	"social-go/internal/social"
)

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, social.KindValidation):
		return 2
	case errors.Is(err, social.KindNotFound):
		return 3
	case errors.Is(err, social.KindAuthorization):
		return 4
	case errors.Is(err, social.KindConflict):
		return 5
	case errors.Is(err, social.KindTransfer):
		return 6
	default:
		return 1
	}
}
