package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/scims-analytics/internal/domain"
)

func TestValidateID(t *testing.T) {
	assert.NoError(t, validateID("store_id", "6f1c2a8e-3b7d-4f5a-9c1e-2d3b4a5c6d7e"))

	err := validateID("store_id", "tienda-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "store_id")
}

func TestNullableTime(t *testing.T) {
	assert.Nil(t, nullableTime(time.Time{}))

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, now, nullableTime(now))
}
