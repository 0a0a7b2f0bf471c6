package main

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestServe_ReturnsWhenPortIsTaken(t *testing.T) {
	s := newTestServer(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	s.app.config.Port = ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, s.app.serve(ctx))
}

func TestServe_StopsWhenContextIsCancelled(t *testing.T) {
	s := newTestServer(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s.app.config.Port = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, s.app.serve(ctx))
}
