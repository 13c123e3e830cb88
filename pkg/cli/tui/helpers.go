package tui

import (
	"errors"

	"prompt-scrape-go/pkg/gateway"
)

// renderInlineError renders an error message inline (without full error view formatting)
func renderInlineError(err error) string {
	if err == nil {
		return ""
	}
	return renderError(err.Error())
}

// userFacingError converts structured submission errors into friendly messages,
// while leaving other error types unchanged.
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	var submitErr *gateway.SubmitError
	if errors.As(err, &submitErr) {
		return errors.New(submitErr.UserMessage())
	}

	return err
}
