package graphio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/pools"
)

// SnappyExt marks files stored as snappy-compressed streams.
const SnappyExt = ".sz"

// WriteFile writes g to path, compressing when the extension is .sz.
func WriteFile(path string, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if filepath.Ext(path) == SnappyExt {
		sw := snappy.NewBufferedWriter(f)
		if err := Write(sw, g); err != nil {
			_ = sw.Close()
			_ = f.Close()
			return err
		}
		if err := sw.Close(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	if err := Write(f, g); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a graph from path, decompressing when the extension
// is .sz.
func ReadFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == SnappyExt {
		r = snappy.NewReader(f)
	}
	return Read(r)
}

// ReadFileMmap reads a graph through a memory-mapped view of the file.
// For very large matrices this avoids double-buffering the raw bytes
// through the page cache. Compression is still selected by extension.
func ReadFileMmap(path string) (*graph.Graph, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	buf := pools.GetBytesSized(reader.Len())
	defer pools.PutBytes(buf)

	if len(buf) > 0 {
		if _, err := reader.ReadAt(buf, 0); err != nil {
			return nil, err
		}
	}

	var r io.Reader = bytes.NewReader(buf)
	if filepath.Ext(path) == SnappyExt {
		r = snappy.NewReader(r)
	}
	return Read(r)
}
