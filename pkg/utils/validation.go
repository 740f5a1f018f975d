package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateActorID validates a health-actor identifier
func ValidateActorID(actorID string) error {
	if actorID == "" {
		return fmt.Errorf("actor ID cannot be empty")
	}
	if len(actorID) > 255 {
		return fmt.Errorf("actor ID too long (max 255 characters)")
	}
	return nil
}

// ValidateTitle validates a request or EHR title
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if len(title) > 512 {
		return fmt.Errorf("title too long (max 512 characters)")
	}
	return nil
}

// ValidateRequired validates that a required string field is non-empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ParseMatricule coerces a patient matricule from its string representation
// to a number. Matricule comparisons are always numeric, never string,
// so both "1001" and 1001 resolve to the same key.
func ParseMatricule(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("matricule cannot be empty")
	}
	matricule, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("matricule must be numeric: %q", value)
	}
	if matricule < 0 {
		return 0, fmt.Errorf("matricule cannot be negative: %d", matricule)
	}
	return matricule, nil
}
