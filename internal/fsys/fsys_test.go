package fsys

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFS(t *testing.T) FS {
	t.Helper()
	mem := memfs.New()
	require.NoError(t, util.WriteFile(mem, "/records/a.txt", []byte("a"), 0o644))
	require.NoError(t, util.WriteFile(mem, "/records/sub/b.md", []byte("b"), 0o644))
	return New(mem)
}

func TestExists(t *testing.T) {
	fs := memFS(t)

	assert.True(t, fs.Exists("/records/a.txt"))
	assert.True(t, fs.Exists("/records/sub"))
	assert.False(t, fs.Exists("/records/missing.txt"))
}

func TestListChildren(t *testing.T) {
	fs := memFS(t)

	children, err := fs.ListChildren("/records")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/records/a.txt", "/records/sub"}, children)

	_, err = fs.ListChildren("/nowhere")
	assert.Error(t, err)
}

func TestBasename(t *testing.T) {
	fs := memFS(t)

	assert.Equal(t, "a.txt", fs.Basename("/records/a.txt"))
	assert.Equal(t, "sub", fs.Basename("/records/sub"))
}

func TestExtension(t *testing.T) {
	fs := memFS(t)

	cases := []struct {
		path string
		ext  string
		ok   bool
	}{
		{"/records/a.txt", "txt", true},
		{"/records/archive.tar.gz", "gz", true},
		{"/records/README", "", false},
		{"/records/.profile", "", false},
		{"/records/trailing.", "", false},
	}
	for _, tc := range cases {
		ext, ok := fs.Extension(tc.path)
		assert.Equal(t, tc.ok, ok, "path %q", tc.path)
		assert.Equal(t, tc.ext, ext, "path %q", tc.path)
	}
}
