package trace

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_OneTimestampPerLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Trace{0, 12, 25, 1000}))
	require.Equal(t, "0\n12\n25\n1000\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, nil))
	require.Empty(t, buf.String())
}

func TestWrite_PropagatesError(t *testing.T) {
	tr := make(Trace, 10000)
	require.Error(t, Write(failingWriter{}, tr))
}

func TestGenerateFile_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weak.up")
	tr, err := GenerateFile(path, defaultParams())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"))

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, len(tr))
	for i, line := range lines {
		require.NotEmpty(t, line)
		v, err := strconv.ParseInt(line, 10, 64)
		require.NoError(t, err, "line %d: %q", i, line)
		require.Equal(t, tr[i], v)
	}
}

func TestGenerateFile_ByteIdenticalReruns(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	_, err := GenerateFile(a, defaultParams())
	require.NoError(t, err)
	_, err = GenerateFile(b, defaultParams())
	require.NoError(t, err)

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, da, db)
}

func TestWriteFile_TruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("999\n", 100)), 0644))
	require.NoError(t, WriteFile(path, Trace{0, 5}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0\n5\n", string(data))
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "trace")
	require.Error(t, WriteFile(path, Trace{0}))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "trace"), Trace{0, 1, 2}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "trace", entries[0].Name())
}

func TestGenerateFile_InvalidParamsWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace")
	_, err := GenerateFile(path, Params{DurationSec: 0, MinKbps: 1, MaxKbps: 2})
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
