package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/AccountKeeper/internal/client/storage"
	"github.com/atinyakov/AccountKeeper/internal/config"
	"github.com/atinyakov/AccountKeeper/internal/repository"
)

func TestOpenSlot_Backends(t *testing.T) {
	srv := miniredis.RunT(t)

	cases := []struct {
		name   string
		mutate func(o *config.Options)
		check  func(t *testing.T, slot any)
	}{
		{
			name:   "file",
			mutate: func(o *config.Options) { o.StoragePath = filepath.Join(t.TempDir(), "s.json") },
			check: func(t *testing.T, slot any) {
				assert.IsType(t, &storage.LocalStorage{}, slot)
			},
		},
		{
			name:   "memory",
			mutate: func(o *config.Options) { o.Backend = config.BackendMemory },
			check: func(t *testing.T, slot any) {
				assert.IsType(t, &repository.MemorySlotRepository{}, slot)
			},
		},
		{
			name: "redis",
			mutate: func(o *config.Options) {
				o.Backend = config.BackendRedis
				o.RedisAddr = srv.Addr()
			},
			check: func(t *testing.T, slot any) {
				assert.IsType(t, &repository.RedisSlotRepository{}, slot)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := config.Default()
			tc.mutate(opts)
			slot, closeFn, err := OpenSlot(opts)
			require.NoError(t, err)
			defer closeFn()
			tc.check(t, slot)
		})
	}
}

func TestOpenSlot_Unknown(t *testing.T) {
	opts := config.Default()
	opts.Backend = "tape"
	_, _, err := OpenSlot(opts)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestNewWire_LoadsStoredAccounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"slots":{"accounts":"[{\"id\":\"1\",\"label\":\"a;b\",\"labels\":[],\"type\":\"ldap\",\"login\":\"bob\",\"password\":null}]"}}`),
		0o600))

	opts := config.Default()
	opts.StoragePath = path

	w, err := NewWire(context.Background(), opts, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	got := w.Accounts.List()
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].Login)
	assert.Len(t, got[0].Labels, 2)
}

func TestNewWire_MalformedSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"slots":{"accounts":"not json"}}`), 0o600))

	opts := config.Default()
	opts.StoragePath = path

	_, err := NewWire(context.Background(), opts, zap.NewNop())
	assert.ErrorContains(t, err, "load accounts")
}
