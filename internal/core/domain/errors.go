package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrLoading      = errors.New("tasks are still loading")
	ErrClosed       = errors.New("task service closed")
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
)

// FieldErrors maps a field name to a human-readable message.
type FieldErrors map[string]string

const (
	RuleRequired = "Required"
	RuleTooShort = "TooShort"
	RuleTooLong  = "TooLong"
	RuleOneOf    = "OneOf"
)

// FieldRule names the rule a field broke. Limit is the bound for length rules.
type FieldRule struct {
	ID    string
	Limit int
}

type ValidationError struct {
	Fields FieldErrors
	Rules  map[string]FieldRule
}

// Add records a violation for field. The first violation of a field wins.
func (e *ValidationError) Add(field string, rule FieldRule, message string) {
	if e.Fields == nil {
		e.Fields = FieldErrors{}
	}
	if e.Rules == nil {
		e.Rules = map[string]FieldRule{}
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
	e.Rules[field] = rule
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PersistenceError reports a failed store operation ("load", "save", "clear").
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
