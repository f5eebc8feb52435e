package app

import (
	"context"
	"testing"

	"todo-app/internal/cache"
	"todo-app/internal/config"
	"todo-app/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Memory(t *testing.T) {
	a, err := Build(context.Background(), &config.Config{StoreBackend: config.BackendMemory})
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &repository.Memory{}, a.Repo)
	assert.Nil(t, a.Worker())

	todo, err := a.Service.Create(context.Background(), "u1", "x")
	require.NoError(t, err)
	assert.Equal(t, "u1", todo.UserID)
}

func TestBuild_WithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	a, err := Build(context.Background(), &config.Config{
		StoreBackend:  config.BackendMemory,
		RedisURL:      "redis://" + mr.Addr() + "/0",
		RedisPoolSize: 2,
	})
	require.NoError(t, err)
	defer a.Close()
	assert.IsType(t, &cache.Repository{}, a.Repo)
}

func TestBuild_UnknownBackend(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{StoreBackend: "sqlite"})
	assert.ErrorContains(t, err, "sqlite")
}

func TestBuild_PostgresRequiresURL(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{StoreBackend: config.BackendPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")
}
