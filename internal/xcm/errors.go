package xcm

import (
	"errors"
	"fmt"
)

// Kind is a stable category of decode failure.
type Kind string

const (
	KindUnsupportedSchemaRevision Kind = "UnsupportedSchemaRevision"
	KindUnsupportedJunction       Kind = "UnsupportedJunction"
	KindUnsupportedAssetVariant   Kind = "UnsupportedAssetVariant"
	KindUnsupportedSigner         Kind = "UnsupportedSigner"
	KindMalformedPayload          Kind = "MalformedPayload"
)

// Error is the structured decode error. Callers branch on Kind, not on Message.
type Error struct {
	Kind    Kind
	Subject string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Subject, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, subject, format string, args ...interface{}) error {
	return &Error{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// Malformed wraps a parse failure at the payload boundary.
func Malformed(subject string, cause error) error {
	msg := "malformed payload"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: KindMalformedPayload, Subject: subject, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
