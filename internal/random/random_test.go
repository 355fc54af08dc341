package random_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mealmax/internal/config"
	"github.com/cory-johannsen/mealmax/internal/random"
)

type failingSource struct{}

func (failingSource) Float64(context.Context) (float64, error) {
	return 0, fmt.Errorf("%w: boom", random.ErrUnavailable)
}

func TestCryptoSource_InRange(t *testing.T) {
	src := random.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v, err := src.Float64(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestCryptoSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := random.NewCryptoSource().Float64(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeededSource_Deterministic(t *testing.T) {
	a, err := random.NewSeededSource(7)
	require.NoError(t, err)
	b, err := random.NewSeededSource(7)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		va, err := a.Float64(context.Background())
		require.NoError(t, err)
		vb, err := b.Float64(context.Background())
		require.NoError(t, err)
		assert.Equal(t, va, vb, "draw %d diverged", i)
	}
}

func TestSeededSource_DifferentSeedsDiffer(t *testing.T) {
	a, err := random.NewSeededSource(1)
	require.NoError(t, err)
	b, err := random.NewSeededSource(2)
	require.NoError(t, err)

	va, _ := a.Float64(context.Background())
	vb, _ := b.Float64(context.Background())
	assert.NotEqual(t, va, vb)
}

// Property: every seeded draw is in [0, 1).
func TestPropertySeededSourceInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		draws := rapid.IntRange(1, 20).Draw(rt, "draws")
		src, err := random.NewSeededSource(seed)
		if err != nil {
			rt.Fatalf("NewSeededSource: %v", err)
		}
		for i := 0; i < draws; i++ {
			v, err := src.Float64(context.Background())
			if err != nil {
				rt.Fatalf("draw: %v", err)
			}
			if v < 0 || v >= 1 {
				rt.Fatalf("draw %v outside [0, 1)", v)
			}
		}
	})
}

func newFractionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSource_ParsesFraction(t *testing.T) {
	srv := newFractionServer(t, http.StatusOK, "0.42\n")
	v, err := random.NewHTTPSource(srv.URL, srv.Client()).Float64(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.42, v)
}

func TestHTTPSource_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusServiceUnavailable, "0.5"},
		{"garbage", http.StatusOK, "not-a-number"},
		{"out of range", http.StatusOK, "1.5"},
		{"negative", http.StatusOK, "-0.1"},
		{"one", http.StatusOK, "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newFractionServer(t, tc.status, tc.body)
			_, err := random.NewHTTPSource(srv.URL, srv.Client()).Float64(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, random.ErrUnavailable)
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := random.NewHTTPSource(url, &http.Client{Timeout: time.Second}).Float64(context.Background())
	assert.ErrorIs(t, err, random.ErrUnavailable)
}

func TestLoggedSource_LogsDraw(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	seeded, err := random.NewSeededSource(3)
	require.NoError(t, err)

	v, err := random.NewLogged(seeded, zap.New(core)).Float64(context.Background())
	require.NoError(t, err)

	entries := logs.FilterMessage("random draw").All()
	require.Len(t, entries, 1)
	assert.Equal(t, v, entries[0].ContextMap()["value"])
}

func TestLoggedSource_PropagatesFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := random.NewLogged(failingSource{}, zap.New(core)).Float64(context.Background())
	assert.True(t, errors.Is(err, random.ErrUnavailable))
	assert.Equal(t, 1, logs.FilterMessage("random draw failed").Len())
}

func TestNew_SelectsSource(t *testing.T) {
	src, err := random.New(config.RandomConfig{Source: config.RandomCrypto})
	require.NoError(t, err)
	assert.NotNil(t, src)

	src, err = random.New(config.RandomConfig{Source: config.RandomSeeded, Seed: 9})
	require.NoError(t, err)
	assert.IsType(t, &random.SeededSource{}, src)

	src, err = random.New(config.RandomConfig{Source: config.RandomHTTP, URL: "http://localhost", Timeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &random.HTTPSource{}, src)

	_, err = random.New(config.RandomConfig{Source: "dice"})
	assert.Error(t, err)
}
