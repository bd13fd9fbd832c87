package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// safeDetailsPrefix tags JSON payloads carried through the safe-details
// channel so DecodeSafeDetails can pick them back out of the chain.
const safeDetailsPrefix = "__json__:"

// ErrorBuilder assembles an error chain. It deliberately does not implement
// the error interface: Mark finishes the chain and returns the error.
type ErrorBuilder struct {
	err error
}

// NewError starts a chain from a fresh message
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

// WithError starts a chain wrapping an existing error
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage prefixes internal context onto the chain. Never rendered to
// callers.
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint attaches the caller-facing message. Hints are the only message
// text that ever reaches a response body.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

// WithHintf is WithHint with formatting
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches structured details safe to show to callers,
// carried as a tagged JSON payload.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	marshaled, err := json.Marshal(details)
	if err != nil {
		return b
	}
	b.err = errors.WithSafeDetails(b.err, safeDetailsPrefix+"%s", errors.Safe(string(marshaled)))
	return b
}

// Mark stamps the sentinel that the Is* helpers and the HTTP status mapping
// key off. Must be the last call in the chain.
func (b *ErrorBuilder) Mark(reference error) error {
	b.err = errors.Mark(b.err, reference)
	return b.err
}

// DisplayMessage returns the first non-empty hint in the chain, falling back
// to a generic message so internal error text never leaks to callers.
func DisplayMessage(err error) string {
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return "An unexpected error occurred"
}

// DecodeSafeDetails merges every reportable-details payload attached along
// the chain back into one map. Untagged safe details are ignored.
func DecodeSafeDetails(err error) map[string]any {
	details := make(map[string]any)
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			if !strings.HasPrefix(payload, safeDetailsPrefix) {
				continue
			}
			var decoded map[string]any
			if jerr := json.Unmarshal([]byte(payload[len(safeDetailsPrefix):]), &decoded); jerr == nil {
				for k, v := range decoded {
					details[k] = v
				}
			}
		}
	}
	return details
}
