package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	redisRepo "github.com/iho/goremit/internal/adapter/repository/redis"
	"github.com/iho/goremit/internal/infrastructure/config"
	"github.com/iho/goremit/internal/usecase/mocks"
)

func TestLockPolicy(t *testing.T) {
	cfg := &config.Config{
		LockWaitTimeout: 2 * time.Second,
		LockLeaseTime:   10 * time.Second,
		LockKeyPrefix:   "LOCK:",
	}

	p := lockPolicy(cfg)
	if p.WaitTimeout != 2*time.Second || p.LeaseTime != 10*time.Second || p.KeyPrefix != "LOCK:" {
		t.Fatalf("unexpected policy %+v", p)
	}
}

func TestRelationshipOracle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := mocks.NewInMemoryFriendships()

	if got := relationshipOracle(&config.Config{}, client, repo); got != repo {
		t.Fatalf("expected the repository itself when caching is disabled")
	}

	got := relationshipOracle(&config.Config{FriendCacheTTL: time.Minute}, client, repo)
	if _, ok := got.(*redisRepo.FriendCache); !ok {
		t.Fatalf("expected a FriendCache, got %T", got)
	}
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  time.Second,
		HTTPWriteTimeout: 2 * time.Second,
		HTTPIdleTimeout:  3 * time.Second,
	}

	srv := newHTTPServer(cfg, http.NotFoundHandler())
	if srv.Addr != ":9090" || srv.ReadTimeout != time.Second || srv.WriteTimeout != 2*time.Second || srv.IdleTimeout != 3*time.Second {
		t.Fatalf("unexpected server %+v", srv)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, time.Second, zerolog.Nop()) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestRun_RequiresJWTSecret(t *testing.T) {
	err := run(context.Background(), &config.Config{}, zerolog.Nop())
	if err != config.ErrMissingJWTSecret {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}
