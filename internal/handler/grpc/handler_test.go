package grpc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePinger struct {
	PingFunc func(ctx context.Context) error
}

func (f *fakePinger) PingContext(ctx context.Context) error {
	return f.PingFunc(ctx)
}

func check(t *testing.T, h *Handler) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestNewHandler_StartsNotServing(t *testing.T) {
	h := NewHandler(&fakePinger{PingFunc: func(context.Context) error { return nil }}, logger.Nop())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, h))
}

func TestProbe_FollowsPing(t *testing.T) {
	var fail atomic.Bool
	h := NewHandler(&fakePinger{PingFunc: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "probe must run under a timeout")
		if fail.Load() {
			return errors.New("connection refused")
		}
		return nil
	}}, logger.Nop())

	h.probe(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, h))

	fail.Store(true)
	h.probe(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, h))
}

func TestRun_StopsOnCancel(t *testing.T) {
	var pings atomic.Int32
	h := NewHandler(&fakePinger{PingFunc: func(context.Context) error {
		pings.Add(1)
		return nil
	}}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return pings.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, h))
}

func TestRegister(t *testing.T) {
	h := NewHandler(&fakePinger{PingFunc: func(context.Context) error { return nil }}, logger.Nop())
	s := grpc.NewServer()
	h.Register(s)

	_, ok := s.GetServiceInfo()[healthpb.Health_ServiceDesc.ServiceName]
	assert.True(t, ok)
}
