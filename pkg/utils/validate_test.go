package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePin(t *testing.T) {
	assert.NoError(t, ValidatePin("0000"))
	assert.NoError(t, ValidatePin("4921"))

	for _, bad := range []string{"", "123", "12345", "12a4", "١٢٣٤", " 1234"} {
		assert.Error(t, ValidatePin(bad), "pin %q should be rejected", bad)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough1"))

	err := ValidatePassword("short1")
	assert.Error(t, err)

	// Entirely numeric passwords are rejected even when long enough.
	err = ValidatePassword("123456789012")
	assert.Error(t, err)
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("anna_k"))
	assert.NoError(t, ValidateUsername("User42"))

	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("_leading"))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("waytoolongusernamefortherules"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "anna_k", NormalizeUsername("  Anna_K "))
	assert.Equal(t, "user@example.com", NormalizeEmail(" User@Example.COM "))
}
