package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderChain(t *testing.T) {
	err := NewError("billing month out of range").
		WithHint("Month must be between 1 and 12").
		WithReportableDetails(map[string]any{"month": 13}).
		Mark(ErrValidation)

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromErr(err))
}

func TestDisplayMessagePrefersFirstNonEmptyHint(t *testing.T) {
	err := NewError("internal detail, never shown").
		WithHint("Unable to load trips for this facility").
		Mark(ErrDatabase)

	assert.Equal(t, "Unable to load trips for this facility", DisplayMessage(err))
}

func TestDisplayMessageFallsBackWithoutHints(t *testing.T) {
	err := NewError("raw query text").Mark(ErrDatabase)

	assert.Equal(t, "An unexpected error occurred", DisplayMessage(err))
}

func TestDecodeSafeDetailsRoundTrip(t *testing.T) {
	err := NewError("duplicate invoice").
		WithReportableDetails(map[string]any{
			"period":    "2024-02",
			"client_id": "user_1",
		}).
		Mark(ErrAlreadyExists)

	details := DecodeSafeDetails(err)
	assert.Equal(t, "2024-02", details["period"])
	assert.Equal(t, "user_1", details["client_id"])
}

func TestDecodeSafeDetailsIgnoresUntaggedPayloads(t *testing.T) {
	err := NewError("plain error").Mark(ErrSystem)

	assert.Empty(t, DecodeSafeDetails(err))
}

func TestWrappedCauseKeepsMark(t *testing.T) {
	cause := NewError("row missing").Mark(ErrNotFound)
	wrapped := WithError(cause).
		WithMessage("loading trip").
		WithHint("No trip with this id").
		Mark(ErrNotFound)

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, "No trip with this id", DisplayMessage(wrapped))
}
