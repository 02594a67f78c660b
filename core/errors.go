package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (err NotFoundError) Error() string {
	return err.Resource + " not found"
}

func IsNotFoundError(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// AccessDeniedError reports that the actor lacks the ownership or authorship
// edge an operation requires. It carries its own kind for auditing but the API
// boundary serializes it exactly like NotFoundError so that callers cannot
// probe for the existence of entities they do not own.
type AccessDeniedError struct {
	Resource string
}

func NewAccessDeniedError(resource string) error {
	return &AccessDeniedError{Resource: resource}
}

func (err AccessDeniedError) Error() string {
	return err.Resource + " not found"
}

func IsAccessDeniedError(err error) bool {
	_, ok := errors.Cause(err).(*AccessDeniedError)
	return ok
}

// InUseError reports a deletion refused because another live association edge
// still references the entity.
type InUseError struct {
	Resource string
	Reason   string
}

func NewInUseError(resource, reason string) error {
	return &InUseError{Resource: resource, Reason: reason}
}

func (err InUseError) Error() string {
	return fmt.Sprintf("cannot delete %s: %s", err.Resource, err.Reason)
}

func IsInUseError(err error) bool {
	_, ok := errors.Cause(err).(*InUseError)
	return ok
}

// DuplicateKeyError reports an insert that violates a composite-key
// uniqueness constraint.
type DuplicateKeyError struct {
	Resource string
}

func NewDuplicateKeyError(resource string) error {
	return &DuplicateKeyError{Resource: resource}
}

func (err DuplicateKeyError) Error() string {
	return err.Resource + " already recorded"
}

func IsDuplicateKeyError(err error) bool {
	_, ok := errors.Cause(err).(*DuplicateKeyError)
	return ok
}

// ReferentialError reports a write referencing a nonexistent foreign entity.
type ReferentialError struct {
	Resource string
}

func NewReferentialError(resource string) error {
	return &ReferentialError{Resource: resource}
}

func (err ReferentialError) Error() string {
	return "referenced " + err.Resource + " does not exist"
}

func IsReferentialError(err error) bool {
	_, ok := errors.Cause(err).(*ReferentialError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
