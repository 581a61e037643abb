package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidTransition is the sentinel wrapped by every *TransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInsufficientStock is the sentinel wrapped by *StockError.
var ErrInsufficientStock = errors.New("insufficient stock")

// ValidationError collects field-level constraint violations.  Handlers
// render Fields as {"errors": {...}} with status 400.
type ValidationError struct {
	Fields map[string]string
}

// Add records msg for field.  The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns e when it holds at least one violation.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid builds a single-field ValidationError.
func Invalid(field, msg string) error {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}

// TransitionError reports a lifecycle step attempted from the wrong state.
type TransitionError struct {
	From string
	To   string
	Msg  string
}

func (e *TransitionError) Error() string { return e.Msg }

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// StockError reports a sale larger than the stock on hand.
type StockError struct {
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Only %d items are available in stock.", e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
