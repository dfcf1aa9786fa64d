// Package faults classifies pipeline failures into the kinds the job runtime acts on.
// Only KindTransient is retried; every other kind fails the job immediately.
package faults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"syscall"

	"github.com/JaimeStill/annex/pkg/repository"
)

// Kind is the failure category of a job error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindTransient
	KindMalformed
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindTransient:
		return "transient_store_error"
	case KindMalformed:
		return "malformed_record"
	case KindWrite:
		return "write_failure"
	default:
		return "unknown"
	}
}

// Error attaches a Kind and the failing operation to an underlying error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound marks err as a missing project, example, or artifact.
func NotFound(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

// Transient marks err as a store failure expected to clear on retry.
func Transient(op string, err error) error {
	return &Error{Kind: KindTransient, Op: op, Err: err}
}

// Malformed marks err as a data shape fault in a record.
func Malformed(op string, err error) error {
	return &Error{Kind: KindMalformed, Op: op, Err: err}
}

// Malformedf builds a Malformed fault from a format string.
func Malformedf(op, format string, args ...any) error {
	return Malformed(op, fmt.Errorf(format, args...))
}

// Write marks err as a failure to persist output.
func Write(op string, err error) error {
	return &Error{Kind: KindWrite, Op: op, Err: err}
}

// KindOf classifies err. An explicit *Error anywhere in the chain wins;
// otherwise known driver, network, and filesystem errors are recognized.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return KindNotFound
	case repository.IsTransient(err):
		return KindTransient
	case isNetworkTimeout(err):
		return KindTransient
	case errors.Is(err, fs.ErrPermission),
		errors.Is(err, syscall.ENOSPC),
		errors.Is(err, syscall.EROFS):
		return KindWrite
	}

	return KindUnknown
}

// Retryable reports whether err should be retried.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return KindOf(err) == KindTransient
}

func isNetworkTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
