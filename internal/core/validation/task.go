// Package validation checks task form values before they reach the collection.
package validation

import (
	"fmt"
	"unicode/utf8"

	"taskkeeper/internal/core/domain"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 500
)

// ValidateForm checks every field of input and reports all violations at once.
func ValidateForm(input domain.FormInput) (domain.ValidatedFields, error) {
	violations := &domain.ValidationError{}

	checkText(violations, domain.FieldTitle, "Title", input.Title, TitleMinLength, TitleMaxLength)
	checkText(violations, domain.FieldDescription, "Description", input.Description, DescriptionMinLength, DescriptionMaxLength)
	status := checkStatus(violations, input.Status)
	priority := checkPriority(violations, input.Priority)

	if violations.HasErrors() {
		return domain.ValidatedFields{}, violations
	}

	return domain.ValidatedFields{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
	}, nil
}

// ValidatePatch applies the form rules to supplied fields only.
func ValidatePatch(patch domain.TaskPatch) (domain.ValidatedPatch, error) {
	violations := &domain.ValidationError{}
	var validated domain.ValidatedPatch

	if patch.Title != nil && checkText(violations, domain.FieldTitle, "Title", *patch.Title, TitleMinLength, TitleMaxLength) {
		value := *patch.Title
		validated.Title = &value
	}
	if patch.Description != nil && checkText(violations, domain.FieldDescription, "Description", *patch.Description, DescriptionMinLength, DescriptionMaxLength) {
		value := *patch.Description
		validated.Description = &value
	}
	if patch.Status != nil {
		if status := checkStatus(violations, *patch.Status); status != "" {
			validated.Status = &status
		}
	}
	if patch.Priority != nil {
		if priority := checkPriority(violations, *patch.Priority); priority != "" {
			validated.Priority = &priority
		}
	}

	if violations.HasErrors() {
		return domain.ValidatedPatch{}, violations
	}
	return validated, nil
}

func checkText(violations *domain.ValidationError, field, label, value string, minLength, maxLength int) bool {
	length := utf8.RuneCountInString(value)
	switch {
	case length == 0:
		violations.Add(field, domain.FieldRule{ID: domain.RuleRequired}, fmt.Sprintf("%s is required", label))
	case length < minLength:
		violations.Add(field, domain.FieldRule{ID: domain.RuleTooShort, Limit: minLength},
			fmt.Sprintf("%s must be at least %d characters", label, minLength))
	case length > maxLength:
		violations.Add(field, domain.FieldRule{ID: domain.RuleTooLong, Limit: maxLength},
			fmt.Sprintf("%s must be at most %d characters", label, maxLength))
	default:
		return true
	}
	return false
}

func checkStatus(violations *domain.ValidationError, value string) domain.TaskStatus {
	if value == "" {
		violations.Add(domain.FieldStatus, domain.FieldRule{ID: domain.RuleRequired}, "Status is required")
		return ""
	}
	status, ok := domain.ParseTaskStatus(value)
	if !ok {
		violations.Add(domain.FieldStatus, domain.FieldRule{ID: domain.RuleOneOf}, "Status must be one of: pending, in-progress, completed")
		return ""
	}
	return status
}

func checkPriority(violations *domain.ValidationError, value string) domain.TaskPriority {
	if value == "" {
		violations.Add(domain.FieldPriority, domain.FieldRule{ID: domain.RuleRequired}, "Priority is required")
		return ""
	}
	priority, ok := domain.ParseTaskPriority(value)
	if !ok {
		violations.Add(domain.FieldPriority, domain.FieldRule{ID: domain.RuleOneOf}, "Priority must be one of: low, medium, high")
		return ""
	}
	return priority
}
