package proc

import (
	"io/fs"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHostFile(fsys afero.Fs, path string, mode os.FileMode) error {
	if err := afero.WriteFile(fsys, path, []byte("#!/bin/sh\n"), mode); err != nil {
		return err
	}
	// MemMapFs doesn't reliably honor the create mode.
	return fsys.Chmod(path, mode)
}

func newLookupFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/bin", 0755))
	require.NoError(t, fsys.MkdirAll("/opt/tools", 0755))
	require.NoError(t, writeHostFile(fsys, "/bin/prog", 0755))
	require.NoError(t, writeHostFile(fsys, "/bin/noexec", 0644))
	require.NoError(t, writeHostFile(fsys, "/opt/tools/tool", 0755))
	return fsys
}

func TestLookPathFindsFirstMatch(t *testing.T) {
	fsys := newLookupFs(t)

	path, err := LookPath(fsys, "/bin:/opt/tools", "prog")
	require.NoError(t, err)
	assert.Equal(t, "/bin/prog", path)
}

func TestLookPathSearchesLaterDirs(t *testing.T) {
	fsys := newLookupFs(t)

	path, err := LookPath(fsys, "/bin:/opt/tools", "tool")
	require.NoError(t, err)
	assert.Equal(t, "/opt/tools/tool", path)
}

func TestLookPathNotFound(t *testing.T) {
	fsys := newLookupFs(t)

	_, err := LookPath(fsys, "/bin:/opt/tools", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookPathSkipsNonExecutable(t *testing.T) {
	fsys := newLookupFs(t)

	_, err := LookPath(fsys, "/bin", "noexec")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookPathDirect(t *testing.T) {
	fsys := newLookupFs(t)

	// A name containing a slash skips the search list entirely.
	path, err := LookPath(fsys, "", "/bin/prog")
	require.NoError(t, err)
	assert.Equal(t, "/bin/prog", path)

	_, err = LookPath(fsys, "", "/bin/noexec")
	assert.ErrorIs(t, err, fs.ErrPermission)

	_, err = LookPath(fsys, "", "/bin/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookPathIgnoresDirectories(t *testing.T) {
	fsys := newLookupFs(t)

	_, err := LookPath(fsys, "/", "bin")
	assert.ErrorIs(t, err, ErrNotFound)
}
