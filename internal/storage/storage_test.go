package storage

import (
	"context"
	"testing"
	"time"

	"atscan/internal/config"
	"atscan/internal/errors"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *errors.Logger {
	logger, _ := errors.New("error")
	return logger
}

func TestNewReturnsNilWhenDisabled(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{}, testLogger())
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestNewStorageBreakerDisabled(t *testing.T) {
	cb := newStorageBreaker(config.CircuitBreakerConfig{Enabled: false}, testLogger())
	assert.Nil(t, cb)
}

func TestNewStorageBreakerTripsOnFailures(t *testing.T) {
	cb := newStorageBreaker(config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}, testLogger())
	require.NotNil(t, cb)
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	failing := func() (any, error) {
		return nil, assert.AnError
	}
	for i := 0; i < 3; i++ {
		_, err := cb.Execute(failing)
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestExecuteWithoutBreaker(t *testing.T) {
	s := &Store{}

	res, err := s.execute(func() (any, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, res)
}

func TestIsHealthy(t *testing.T) {
	var nilStore *Store
	assert.True(t, nilStore.IsHealthy(), "disabled storage is considered healthy")

	s := &Store{}
	assert.True(t, s.IsHealthy(), "no breaker means healthy")
}

func TestStatsWithoutPool(t *testing.T) {
	s := &Store{}
	stats := s.Stats()

	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, map[string]any{"enabled": false}, stats["circuit_breaker"])
}
