package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewCarRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewCarRepository(pool)
	assert.NotNil(t, repo)
}
