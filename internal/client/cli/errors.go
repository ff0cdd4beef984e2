package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hoteldesk/internal/client/api"
	"github.com/dmitrijs2005/hoteldesk/internal/client/session"
	"github.com/dmitrijs2005/hoteldesk/internal/client/validate"
)

type usageError struct {
	text string
}

func (e *usageError) Error() string {
	return "usage: " + e.text
}

func usage(text string) error {
	return &usageError{text: text}
}

// describe turns a handler error into the single message shown to the
// operator.
func describe(err error) string {
	var (
		ves validate.ValidationErrors
		ve  validate.ValidationError
		ue  *usageError
		se  *api.ServerError
	)
	switch {
	case errors.As(err, &ves):
		lines := make([]string, 0, len(ves)+1)
		lines = append(lines, "invalid input:")
		for _, e := range ves {
			lines = append(lines, fmt.Sprintf("  %s: %s", e.Field, e.Message))
		}
		return strings.Join(lines, "\n")
	case errors.As(err, &ve):
		return fmt.Sprintf("invalid input: %s: %s", ve.Field, ve.Message)
	case errors.As(err, &ue):
		return ue.Error()
	case errors.Is(err, session.ErrInvalidCredentials):
		return "error: invalid username or password"
	case errors.Is(err, api.ErrUnavailable):
		return "error: server unreachable (retry with 'refresh')"
	case errors.Is(err, api.ErrUnauthorized):
		return "error: session expired, please log in again"
	case errors.As(err, &se):
		return "error: " + se.Error()
	}
	return "error: " + err.Error()
}
