// Package source locates and opens benchmark sample files.
//
// Sample files are named "<chain>....txt" and may be stored compressed with
// zstd (".txt.zst") or gzip (".txt.gz").
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrNoSampleFile indicates that no sample file matched the chain.
var ErrNoSampleFile = errors.New("no sample file")

// SelectPolicy picks one file when several match.
type SelectPolicy int

const (
	// SelectNewest picks the most recently modified file.
	SelectNewest SelectPolicy = iota
	// SelectOldest picks the least recently modified file.
	SelectOldest
)

func (p SelectPolicy) String() string {
	switch p {
	case SelectNewest:
		return "newest"
	case SelectOldest:
		return "oldest"
	default:
		return fmt.Sprintf("SelectPolicy(%d)", int(p))
	}
}

const (
	extText = ".txt"
	extZstd = ".zst"
	extGzip = ".gz"
)

var patterns = []string{"*" + extText, "*" + extText + extZstd, "*" + extText + extGzip}

type candidate struct {
	path  string
	mtime int64
}

// Locate returns the sample file for chain in dir according to policy.
// Ties on modification time are broken by name.
func Locate(dir, chain string, policy SelectPolicy) (string, error) {
	if chain == "" {
		return "", fmt.Errorf("%w: empty chain id", ErrNoSampleFile)
	}

	var found []candidate
	for _, p := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, globEscape(chain)+p))
		if err != nil {
			return "", fmt.Errorf("glob samples: %w", err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			found = append(found, candidate{path: m, mtime: info.ModTime().UnixNano()})
		}
	}
	if len(found) == 0 {
		return "", fmt.Errorf("%w: %s in %s", ErrNoSampleFile, chain, dir)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].mtime != found[j].mtime {
			return found[i].mtime < found[j].mtime
		}
		return found[i].path < found[j].path
	})

	if policy == SelectOldest {
		return found[0].path, nil
	}
	return found[len(found)-1].path, nil
}

// Open opens path for reading, decompressing by extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, extZstd):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		return &zstdReadCloser{dec: dec, file: f}, nil
	case strings.HasSuffix(path, extGzip):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &gzipReadCloser{Reader: zr, file: f}, nil
	default:
		return f, nil
	}
}

// RunName returns the base name of path without a compression suffix,
// e.g. "dir/eth_erc20.1000.50.txt.zst" becomes "eth_erc20.1000.50.txt".
func RunName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, extZstd)
	return strings.TrimSuffix(name, extGzip)
}

type zstdReadCloser struct {
	dec  *zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.file.Close()
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}

func globEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`)
	return r.Replace(s)
}
