package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	s1, err := MakeRandHexString(20)
	require.NoError(t, err)
	assert.Len(t, s1, 40)

	s2, err := MakeRandHexString(20)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("email", "this field is required")
	assert.Equal(t, "validation error: email: this field is required", err.Error())
}
