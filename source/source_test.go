package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samples = "1 10 0 20 20\n2 12 0 25 25\n"

func writeFile(t *testing.T, path string, data []byte, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// TestLocate tests file selection by policy.
func TestLocate(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	writeFile(t, filepath.Join(dir, "eth_erc20.1000.50.txt"), []byte(samples), base)
	writeFile(t, filepath.Join(dir, "eth_native.500.10.txt.zst"), []byte("x"), base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "ava_erc20.1000.50.txt"), []byte(samples), base.Add(2*time.Hour))
	writeFile(t, filepath.Join(dir, "eth_notes.md"), []byte("x"), base.Add(3*time.Hour))

	tests := []struct {
		name   string
		chain  string
		policy SelectPolicy
		want   string
	}{
		{"newest", "eth", SelectNewest, "eth_native.500.10.txt.zst"},
		{"oldest", "eth", SelectOldest, "eth_erc20.1000.50.txt"},
		{"single", "ava", SelectNewest, "ava_erc20.1000.50.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Locate(dir, tt.chain, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filepath.Base(got))
		})
	}
}

// TestLocateTieBreak tests that equal mtimes are ordered by name.
func TestLocateTieBreak(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, filepath.Join(dir, "klay_b.txt"), []byte(samples), ts)
	writeFile(t, filepath.Join(dir, "klay_a.txt"), []byte(samples), ts)

	got, err := Locate(dir, "klay", SelectOldest)
	require.NoError(t, err)
	assert.Equal(t, "klay_a.txt", filepath.Base(got))
}

// TestLocateNoMatch tests ErrNoSampleFile.
func TestLocateNoMatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "eth_dir.txt"), 0o755))

	_, err := Locate(dir, "eth", SelectNewest)
	assert.ErrorIs(t, err, ErrNoSampleFile)

	_, err = Locate(dir, "", SelectNewest)
	assert.ErrorIs(t, err, ErrNoSampleFile)
}

// TestOpen tests transparent decompression.
func TestOpen(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "eth.txt")
	require.NoError(t, os.WriteFile(plain, []byte(samples), 0o644))

	zst := filepath.Join(dir, "eth.txt.zst")
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(zst, enc.EncodeAll([]byte(samples), nil), 0o644))
	require.NoError(t, enc.Close())

	gz := filepath.Join(dir, "eth.txt.gz")
	f, err := os.Create(gz)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(samples))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	for _, path := range []string{plain, zst, gz} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			rc, err := Open(path)
			require.NoError(t, err)
			defer rc.Close()

			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, samples, string(data))
		})
	}
}

// TestOpenErrors tests missing and corrupt files.
func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "eth.txt.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o644))
	_, err = Open(bad)
	assert.Error(t, err)
}

// TestRunName tests suffix stripping.
func TestRunName(t *testing.T) {
	assert.Equal(t, "eth_erc20.1000.50.txt", RunName("/data/eth_erc20.1000.50.txt.zst"))
	assert.Equal(t, "eth_erc20.1000.50.txt", RunName("eth_erc20.1000.50.txt.gz"))
	assert.Equal(t, "eth.txt", RunName("samples/eth.txt"))
}

// TestSelectPolicyString tests policy names.
func TestSelectPolicyString(t *testing.T) {
	assert.Equal(t, "newest", SelectNewest.String())
	assert.Equal(t, "oldest", SelectOldest.String())
	assert.Equal(t, "SelectPolicy(7)", SelectPolicy(7).String())
}
