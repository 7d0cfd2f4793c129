package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "eventops/pkg/domainerrors"
)

// TestParseID_Invariants validates the parsing invariant: identifiers
// entering at trust boundaries must be well-formed UUIDs.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseRegistrationID("")
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseRegistrationID("not-a-uuid")
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseRegistrationID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, RegistrationID(validUUID), id)
	})

	t.Run("error names the id kind", func(t *testing.T) {
		_, err := ParseOptionID("garbage")
		require.ErrorContains(t, err, "option")
		_, err = ParseTemplateID("garbage")
		require.ErrorContains(t, err, "template")
	})
}

// TestParseID_AttackInputs validates that trust-boundary parsing rejects
// hostile input shapes.
func TestParseID_AttackInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE usage_records;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEventID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestTypeDistinction documents the compile-time invariant: typed IDs cannot
// be assigned across kinds, so a registration id can never slip into an
// option id parameter.
func TestTypeDistinction(t *testing.T) {
	registrationID := RegistrationID(uuid.New())
	optionID := OptionID(uuid.New())

	// These would fail to compile if the types were interchangeable:
	// var _ RegistrationID = optionID
	// var _ OptionID = registrationID

	assert.NotEqual(t, uuid.UUID(registrationID), uuid.UUID(optionID))
}

func TestIDJSONRoundTrip(t *testing.T) {
	original := RegistrationID(uuid.New())

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	// IDs marshal as UUID strings, not as byte arrays.
	require.Equal(t, `"`+original.String()+`"`, string(raw))

	var decoded RegistrationID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, original, decoded)
}

func TestIsNil(t *testing.T) {
	assert.True(t, EventID{}.IsNil())
	assert.False(t, EventID(uuid.New()).IsNil())
	assert.False(t, NewRecordID().String() == uuid.Nil.String())
}
