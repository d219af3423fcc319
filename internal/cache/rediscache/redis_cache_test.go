package rediscache_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"cvscreen/internal/cache/rediscache"
	"cvscreen/internal/config"
)

func TestKey(t *testing.T) {
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

	assert.Equal(t, "cvscreen:results:7c9e6679-7425-40de-944b-e07fc1f90ae7", rediscache.Key(id))
}

func TestNewCache_RequiresAddress(t *testing.T) {
	_, err := rediscache.NewCache(&config.CacheConfig{})

	assert.Error(t, err)
}
