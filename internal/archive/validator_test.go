package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(name + " content"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestRequiredEntries(t *testing.T) {
	assert.Equal(t, []string{"foo/A.txt", "foo/B.txt"}, RequiredEntries("foo.zip"))
	assert.Equal(t, []string{"foo.tar/A.txt", "foo.tar/B.txt"}, RequiredEntries("foo.tar.zip"))
	assert.Equal(t, []string{".zip/A.txt", ".zip/B.txt"}, RequiredEntries(".zip"))
}

func TestHasZipExtension(t *testing.T) {
	assert.True(t, HasZipExtension("foo.zip"))
	assert.False(t, HasZipExtension("foo.ZIP"))
	assert.False(t, HasZipExtension("foo.txt"))
	assert.False(t, HasZipExtension("zip"))
}

func TestValidate(t *testing.T) {
	t.Run("required entries with extras", func(t *testing.T) {
		err := Validate("foo.zip", []string{"foo/", "foo/A.txt", "foo/B.txt", "foo/C.txt", "readme.md"})
		assert.NoError(t, err)
	})

	t.Run("missing B", func(t *testing.T) {
		err := Validate("foo.zip", []string{"foo/A.txt"})
		assert.ErrorIs(t, err, ErrMissingEntry)
		assert.ErrorIs(t, err, ErrMalformed)
		assert.Contains(t, err.Error(), "foo/B.txt")
	})

	t.Run("entries under another folder", func(t *testing.T) {
		err := Validate("foo.zip", []string{"bar/A.txt", "bar/B.txt"})
		assert.ErrorIs(t, err, ErrMissingEntry)
	})

	t.Run("entries at the root", func(t *testing.T) {
		err := Validate("foo.zip", []string{"A.txt", "B.txt"})
		assert.ErrorIs(t, err, ErrMissingEntry)
	})
}

func TestInspect(t *testing.T) {
	t.Run("valid archive", func(t *testing.T) {
		data := buildZip(t, "alice/A.txt", "alice/B.txt", "alice/notes.txt")
		assert.NoError(t, Inspect("alice.zip", data))
	})

	t.Run("missing entry", func(t *testing.T) {
		data := buildZip(t, "foo/A.txt")
		assert.ErrorIs(t, Inspect("foo.zip", data), ErrMissingEntry)
	})

	t.Run("corrupt archive", func(t *testing.T) {
		err := Inspect("foo.zip", []byte("definitely not a zip"))
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("wrong extension is rejected before parsing", func(t *testing.T) {
		data := buildZip(t, "foo/A.txt", "foo/B.txt")
		assert.ErrorIs(t, Inspect("foo.txt", data), ErrNotZip)
	})
}

func TestEntries(t *testing.T) {
	names, err := Entries(buildZip(t, "x/1", "x/2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x/1", "x/2"}, names)
}
