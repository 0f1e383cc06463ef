package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cbrgm/go-mcp-server/mcp"
	"github.com/redis/go-redis/v9"
)

// fakeRedisClient is a minimal in-process stand-in for RedisClient,
// interpreting just the GET/SET/DEL commands RedisStore issues.
type fakeRedisClient struct {
	data map[string]string
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{data: make(map[string]string)}
}

func (f *fakeRedisClient) Do(ctx context.Context, args ...any) *redis.Cmd {
	cmd := redis.NewCmd(ctx, args...)
	if len(args) == 0 {
		cmd.SetErr(errors.New("no command given"))
		return cmd
	}

	name, _ := args[0].(string)
	switch name {
	case "GET":
		key, _ := args[1].(string)
		v, ok := f.data[key]
		if !ok {
			cmd.SetErr(redis.Nil)
			return cmd
		}
		cmd.SetVal(v)
	case "SET":
		key, _ := args[1].(string)
		val := fmt.Sprint(args[2])
		f.data[key] = val
		cmd.SetVal("OK")
	case "DEL":
		key, _ := args[1].(string)
		delete(f.data, key)
		cmd.SetVal(int64(1))
	default:
		cmd.SetErr(fmt.Errorf("unsupported command %q", name))
	}
	return cmd
}

func TestRedisStorePutGetRoundTrip(t *testing.T) {
	client := newFakeRedisClient()
	store := NewRedisStore(client, 0)

	s := New("sess-1")
	s.AnswerHandshake(mcp.ClientInfo{Name: "client", Version: "1.0"}, "2025-06-18")
	s.MarkInitialized()

	if err := store.Put(context.Background(), s); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "sess-1" || !got.IsInitialized() {
		t.Errorf("expected a restored initialized session, got %+v", got)
	}
}

func TestRedisStoreGetMissingReturnsErrNotFound(t *testing.T) {
	client := newFakeRedisClient()
	store := NewRedisStore(client, 0)

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	client := newFakeRedisClient()
	store := NewRedisStore(client, 0)

	s := New("sess-1")
	if err := store.Put(context.Background(), s); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(context.Background(), "sess-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Delete, got %v", err)
	}
}

func TestRedisStoreReapIsNoOp(t *testing.T) {
	store := NewRedisStore(newFakeRedisClient(), 0)
	n, err := store.Reap(context.Background(), 0)
	if err != nil || n != 0 {
		t.Errorf("expected Reap to be a no-op returning (0, nil), got (%d, %v)", n, err)
	}
}
