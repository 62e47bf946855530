package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// statusError exposes the HTTP status of a Discord REST failure to the
// throttle package.
type statusError struct {
	error
	code int
}

func (e statusError) StatusCode() int { return e.code }
func (e statusError) Unwrap() error   { return e.error }

func classify(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *discordgo.RateLimitError
	if errors.As(err, &rateErr) {
		return statusError{error: err, code: http.StatusTooManyRequests}
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return statusError{error: err, code: restErr.Response.StatusCode}
	}
	return err
}
