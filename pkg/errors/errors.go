package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeRow represents per-row errors recovered locally by counting
	ErrorTypeRow ErrorType = "row"
	// ErrorTypeSource represents errors that abort one (source, dataset) population
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeStore represents graph-store corruption errors, fatal for the run
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeExport represents export/materialization errors
	ErrorTypeExport ErrorType = "export"
	// ErrorTypeLoader represents graph-database loader errors
	ErrorTypeLoader ErrorType = "loader"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error's taxonomy family. Types embedding BaseError
// inherit it, which is what IsErrorType keys on.
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Row-level errors. These never abort a source: the population engine
// counts them and moves on to the next row.

// ErrMissingIdentity is returned when a row has no value in its identity column
type ErrMissingIdentity struct {
	*BaseError
	NodeType       string
	IdentityColumn string
}

func NewMissingIdentity(nodeType, identityColumn string) *ErrMissingIdentity {
	return &ErrMissingIdentity{
		BaseError:      NewBaseError(ErrorTypeRow, fmt.Sprintf("missing identity value in column %q for node type %s", identityColumn, nodeType), nil),
		NodeType:       nodeType,
		IdentityColumn: identityColumn,
	}
}

// ErrMissingEndpoint is returned when a relationship row references a node
// that was never populated
type ErrMissingEndpoint struct {
	*BaseError
	NodeType      string
	MatchProperty string
	Value         string
}

func NewMissingEndpoint(nodeType, matchProperty, value string) *ErrMissingEndpoint {
	return &ErrMissingEndpoint{
		BaseError:     NewBaseError(ErrorTypeRow, fmt.Sprintf("no %s node with %s=%q", nodeType, matchProperty, value), nil),
		NodeType:      nodeType,
		MatchProperty: matchProperty,
		Value:         value,
	}
}

// Source-level errors. These abort the population of one (source, dataset)
// configuration key; the coordinator records the failure and continues.

// ErrUnknownSchemaReference is returned when a configured name has no entry
// in the schema resource
type ErrUnknownSchemaReference struct {
	*BaseError
	Name string
	Kind string
}

func NewUnknownSchemaReference(name, kind string) *ErrUnknownSchemaReference {
	return &ErrUnknownSchemaReference{
		BaseError: NewBaseError(ErrorTypeSource, fmt.Sprintf("unknown schema reference %q (%s)", name, kind), nil),
		Name:      name,
		Kind:      kind,
	}
}

// ErrConfigMissingRequiredField is returned when a population config lacks a
// required field
type ErrConfigMissingRequiredField struct {
	*BaseError
	ConfigKey string
	Field     string
}

func NewConfigMissingRequiredField(configKey, field string) *ErrConfigMissingRequiredField {
	return &ErrConfigMissingRequiredField{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config %s is missing required field %q", configKey, field), nil),
		ConfigKey: configKey,
		Field:     field,
	}
}

// ErrProviderFailed is returned when a dataset provider cannot deliver rows
type ErrProviderFailed struct {
	*BaseError
	ConfigKey string
}

func NewProviderFailed(configKey string, err error) *ErrProviderFailed {
	return &ErrProviderFailed{
		BaseError: NewBaseError(ErrorTypeSource, fmt.Sprintf("dataset provider failed for %s", configKey), err),
		ConfigKey: configKey,
	}
}

// Store-level errors. Fatal for the whole run: tolerating them would
// silently corrupt the graph.

// ErrDuplicateKeyTypeMismatch is returned when the same identity key is
// requested under two different node types
type ErrDuplicateKeyTypeMismatch struct {
	*BaseError
	Key          string
	ExistingType string
	RequestType  string
}

func NewDuplicateKeyTypeMismatch(key, existingType, requestType string) *ErrDuplicateKeyTypeMismatch {
	return &ErrDuplicateKeyTypeMismatch{
		BaseError:    NewBaseError(ErrorTypeStore, fmt.Sprintf("key %q already exists with type %s, requested as %s", key, existingType, requestType), nil),
		Key:          key,
		ExistingType: existingType,
		RequestType:  requestType,
	}
}

// Loader errors

// ErrLoaderConnectionFailed is returned when the graph database is unreachable
type ErrLoaderConnectionFailed struct {
	*BaseError
	URI string
}

func NewLoaderConnectionFailed(uri string, err error) *ErrLoaderConnectionFailed {
	return &ErrLoaderConnectionFailed{
		BaseError: NewBaseError(ErrorTypeLoader, fmt.Sprintf("failed to connect to graph database: %s", uri), err),
		URI:       uri,
	}
}

// Helper functions

type categorized interface {
	Category() ErrorType
}

// IsErrorType checks if an error belongs to a taxonomy family
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if c, ok := err.(categorized); ok {
		return c.Category() == errType
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}

// IsFatal reports whether an error must abort the whole pipeline run
func IsFatal(err error) bool {
	return IsErrorType(err, ErrorTypeStore)
}
