// Package errors defines the stable error taxonomy for all navigation failures.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// DescriptorNotFound indicates no project/solution could be resolved for a file
	DescriptorNotFound ErrorCode = "DESCRIPTOR_NOT_FOUND"
	// FileNotInContext indicates the file is not part of the loaded context's document set
	FileNotInContext ErrorCode = "FILE_NOT_IN_CONTEXT"
	// SymbolNotFound indicates position resolution yielded nothing, or a type name had no match
	SymbolNotFound ErrorCode = "SYMBOL_NOT_FOUND"
	// UnsupportedDescriptorFormat indicates the path extension is not recognized by the loader
	UnsupportedDescriptorFormat ErrorCode = "UNSUPPORTED_DESCRIPTOR_FORMAT"
	// OperationCanceled indicates cooperative cancellation was honored
	OperationCanceled ErrorCode = "OPERATION_CANCELED"
	// ProviderInternalFailure indicates the analysis provider itself failed
	ProviderInternalFailure ErrorCode = "PROVIDER_INTERNAL_FAILURE"
)

// NavError represents a navigation error with a stable code and optional details
type NavError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new NavError
func New(code ErrorCode, message string, cause error) *NavError {
	return &NavError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *NavError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *NavError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *NavError) WithDetails(details interface{}) *NavError {
	e.Details = details
	return e
}

// NewDescriptorNotFound reports that no descriptor owns the given file.
func NewDescriptorNotFound(searchedPath string) *NavError {
	return New(DescriptorNotFound,
		fmt.Sprintf("no project or solution descriptor found for %s", searchedPath), nil).
		WithDetails(map[string]string{"searchedPath": searchedPath})
}

// NewFileNotInContext reports that a file is outside the loaded context.
func NewFileNotInContext(filePath, descriptorPath string) *NavError {
	return New(FileNotInContext,
		fmt.Sprintf("file %s is not part of the context loaded from %s", filePath, descriptorPath), nil).
		WithDetails(map[string]string{"filePath": filePath, "descriptorPath": descriptorPath})
}

// NewSymbolNotFound reports that no symbol could be resolved.
func NewSymbolNotFound(what string) *NavError {
	return New(SymbolNotFound, what, nil)
}

// NewUnsupportedDescriptorFormat reports an unrecognized descriptor extension.
func NewUnsupportedDescriptorFormat(path string) *NavError {
	return New(UnsupportedDescriptorFormat,
		fmt.Sprintf("unsupported descriptor format: %s", path), nil).
		WithDetails(map[string]string{"path": path})
}

// NewProviderFailure wraps an unexpected provider error.
func NewProviderFailure(message string, cause error) *NavError {
	return New(ProviderInternalFailure, message, cause)
}

// FromError maps an arbitrary error to exactly one taxonomy code.
// NavErrors pass through; cancellation maps to OperationCanceled;
// everything else is a provider internal failure.
func FromError(err error) *NavError {
	if err == nil {
		return nil
	}
	var navErr *NavError
	if stderrors.As(err, &navErr) {
		return navErr
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return New(OperationCanceled, "operation canceled", err)
	}
	return New(ProviderInternalFailure, "analysis provider failure", err)
}

// CodeOf returns the taxonomy code for an error, mapping unknown errors
// to ProviderInternalFailure.
func CodeOf(err error) ErrorCode {
	return FromError(err).Code
}
