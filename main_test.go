package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllRequiresProcesses(t *testing.T) {
	require.Error(t, runAll(context.Background(), nil))
}

func TestRunAllReportsFirstFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	err := runAll(ctx, []procConfig{
		{Name: "broken", Args: []string{"sh", "-c", "exit 3"}},
		{Name: "server", Args: []string{"sleep", "20"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken exited")
	assert.NotContains(t, err.Error(), "server")
	assert.Less(t, time.Since(start), 10*time.Second, "sibling should be stopped after the failure")
}

func TestRunAllSignalIsCleanShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	err := runAll(ctx, []procConfig{
		{Name: "server", Args: []string{"sleep", "20"}},
	})
	assert.NoError(t, err)
}
