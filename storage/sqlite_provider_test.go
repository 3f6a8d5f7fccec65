package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteProviderContract(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	providerContract(t, p, DefaultKey)
	require.NoError(t, p.Close())
}

func TestSQLiteProviderPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	p, err := NewSQLiteProvider(path)
	require.NoError(t, err)
	require.NoError(t, p.Set(context.Background(), DefaultKey, []byte(`["x"]`)))
	require.NoError(t, p.Close())

	reopened, err := NewSQLiteProvider(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["x"]`), got)
}

func TestSQLiteProviderUnopenablePath(t *testing.T) {
	_, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "missing", "deep", "kv.db"))
	assert.Error(t, err)
}
