package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		url        string
		clientName string
	}{
		{name: "default client name", url: "redis://" + mr.Addr(), clientName: "goremit"},
		{name: "name from url is kept", url: "redis://" + mr.Addr() + "/0?client_name=remit-worker", clientName: "remit-worker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(ctx, tt.url)
			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Close() })

			assert.Equal(t, tt.clientName, client.Options().ClientName)
			require.NoError(t, client.Set(ctx, "ACCOUNTLOCK:100000000000", "1", 0).Err())
		})
	}
}

func TestNewClient_Errors(t *testing.T) {
	t.Run("malformed url", func(t *testing.T) {
		_, err := NewClient(context.Background(), "://bad-url")
		assert.ErrorContains(t, err, "failed to parse redis URL")
	})

	t.Run("server down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		url := "redis://" + mr.Addr()
		mr.Close()

		_, err := NewClient(context.Background(), url)
		assert.ErrorContains(t, err, "failed to ping redis")
	})
}
