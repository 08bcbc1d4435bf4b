package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

// newMiniredisClient starts an in-process server and a client bound to it.
// Both are torn down when the test ends.
func newMiniredisClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), ClientName: "goremit-test"})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}
