// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// StoreError represents a failure of a store operation, classified into a
// closed taxonomy so callers never have to match on driver-specific types.
type StoreError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// ErrorKind defines the kinds of store errors.
type ErrorKind int

const (
	// KindUnknown unexpected driver or network failure.
	KindUnknown ErrorKind = iota
	// KindInput malformed caller input; never retried.
	KindInput
	// KindQuery the engine rejected the query (e.g. missing geospatial index).
	KindQuery
	// KindNotFound the referenced database or collection does not exist.
	KindNotFound
)

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewInputError builds a StoreError of kind KindInput.
func NewInputError(format string, args ...any) *StoreError {
	return &StoreError{Kind: KindInput, Message: fmt.Sprintf(format, args...)}
}

// NewQueryError wraps an engine-level rejection.
func NewQueryError(err error, format string, args ...any) *StoreError {
	return &StoreError{Kind: KindQuery, Message: fmt.Sprintf(format, args...), Err: err}
}

// NewNotFoundError builds a StoreError of kind KindNotFound.
func NewNotFoundError(format string, args ...any) *StoreError {
	return &StoreError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func isKind(err error, kind ErrorKind) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind == kind
	}

	return false
}

// IsInputError verifies if the error was caused by malformed caller input.
func IsInputError(err error) bool {
	return isKind(err, KindInput)
}

// IsQueryError verifies if the error was an engine-level query rejection.
func IsQueryError(err error) bool {
	return isKind(err, KindQuery)
}

// IsNotFoundError verifies if the error refers to a missing database or collection.
func IsNotFoundError(err error) bool {
	return isKind(err, KindNotFound)
}

// IsDuplicateKey verifies if the error is a duplicate primary key conflict.
// These are benign during idempotent loads and are never propagated as
// failures by the bulk-load path.
func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

// namespaceExistsCode is the server code for creating a collection that is
// already there.
const namespaceExistsCode = 48

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == namespaceExistsCode || cmdErr.Name == "NamespaceExists"
	}

	return false
}

// classifyQueryError maps driver errors raised while executing a query onto
// the StoreError taxonomy.
func classifyQueryError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return NewQueryError(err, "%s rejected by engine", operation)
	}

	return &StoreError{Kind: KindUnknown, Message: operation + " failed", Err: err}
}
