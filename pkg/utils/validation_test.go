package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatricule(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "plain number", input: "1001", expected: 1001},
		{name: "surrounding whitespace", input: " 1001 ", expected: 1001},
		{name: "zero", input: "0", expected: 0},
		{name: "empty", input: "", wantErr: true},
		{name: "non-numeric", input: "AB-1001", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matricule, err := ParseMatricule(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, matricule)
		})
	}
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("Cardiology record"))
	assert.Error(t, ValidateTitle(""))
	assert.Error(t, ValidateTitle("   "))
	assert.Error(t, ValidateTitle(strings.Repeat("x", 513)))
}

func TestValidateActorID(t *testing.T) {
	assert.NoError(t, ValidateActorID("HA1"))
	assert.Error(t, ValidateActorID(""))
	assert.Error(t, ValidateActorID(strings.Repeat("x", 256)))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("firstName", "Alice"))

	err := ValidateRequired("firstName", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "firstName")
}
