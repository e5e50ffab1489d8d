package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2025-06-01"))
	assert.True(t, IsValidDate("2024-02-29"))
	assert.False(t, IsValidDate(""))
	assert.False(t, IsValidDate("2025-6-1"))
	assert.False(t, IsValidDate("2025-02-30"))
	assert.False(t, IsValidDate("01/06/2025"))
}

func TestIsValidClock(t *testing.T) {
	assert.True(t, IsValidClock("09:00"))
	assert.True(t, IsValidClock("23:59"))
	assert.False(t, IsValidClock(""))
	assert.False(t, IsValidClock("9:00"))
	assert.False(t, IsValidClock("24:00"))
	assert.False(t, IsValidClock("09:00:00"))
}

func TestCoordinates(t *testing.T) {
	assert.True(t, IsValidLatitude(-33.86))
	assert.False(t, IsValidLatitude(91))
	assert.True(t, IsValidLongitude(151.2))
	assert.False(t, IsValidLongitude(-181))
}

func TestIsValidEmailAndUUID(t *testing.T) {
	assert.True(t, IsValidEmail("rescuer@example.org"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.True(t, IsValidUUID("3F2504E0-4F89-41D3-9A0C-0305E82C3301"))
	assert.False(t, IsValidUUID("abc"))
}
