// Package errs wraps cockroachdb/errors so the rest of the codebase gets
// stack traces and sentinel marking from a single import.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// New returns an error carrying a stack trace from the call site.
func New(msg string) error {
	return cr.New(msg)
}

// Wrap annotates err with msg, keeping the original stack. Nil in, nil out,
// so call sites can wrap unconditionally.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches markErr so callers can match with errors.Is while the
// original cause stays intact for logging.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// ExtractStackLines renders err verbosely and returns at most maxLines lines,
// for structured log fields where a full dump is too noisy.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
