package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewTripRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewTripRepository(pool)
	assert.NotNil(t, repo)
}
