package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my_pkg")
	fs := NewFileStore()

	require.NoError(t, fs.Save(dir, "storage.py", []byte("# storage\n")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "__pycache__"), 0o755))

	data, err := fs.Get(dir, "storage.py")
	require.NoError(t, err)
	assert.Equal(t, "# storage\n", string(data))

	names, err := fs.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"storage.py"}, names)

	require.NoError(t, fs.Delete(dir, "storage.py"))
	_, err = fs.Get(dir, "storage.py")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, fs.Delete(dir, "storage.py"), ErrNotFound)
}

func TestFileStore_ListMissingScope(t *testing.T) {
	names, err := NewFileStore().List(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
