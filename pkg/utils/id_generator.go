package utils

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestID generates a numeric request ID derived from the current
// time. Low-collision but not cryptographically unique; ledger-assigned IDs
// replace it once a transaction confirms.
func GenerateRequestID() int64 {
	return time.Now().UnixMilli()*1000 + rand.Int63n(1000)
}

// GenerateEHRID generates a fallback EHR ID for ledger responses that carry
// no ID of their own.
func GenerateEHRID() int64 {
	return time.Now().UnixMilli()
}

// GenerateCorrelationID generates a new correlation ID for request tracing.
func GenerateCorrelationID() string {
	return uuid.New().String()
}

// IsValidUUID checks if a string is a valid UUID.
func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
