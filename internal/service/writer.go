package service

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nadavo/conversational-datasets/internal/dataset"
)

// shardWriter writes serialized examples round-robin across a fixed
// number of NDJSON shard files named prefix-00042-of-01000.ndjson.
type shardWriter struct {
	files   []*os.File
	writers []*bufio.Writer
	next    int
	count   int
}

// newShardWriter creates the output directory and all shard files up
// front, so a completed build always has its full set of shards even
// when some end up empty.
func newShardWriter(dir, prefix string, numShards int) (*shardWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	w := &shardWriter{
		files:   make([]*os.File, numShards),
		writers: make([]*bufio.Writer, numShards),
	}

	for i := 0; i < numShards; i++ {
		name := ShardFileName(prefix, i, numShards)
		file, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to create shard %s: %w", name, err)
		}
		w.files[i] = file
		w.writers[i] = bufio.NewWriter(file)
	}

	return w, nil
}

// ShardFileName returns the canonical shard file name
func ShardFileName(prefix string, shard, numShards int) string {
	return fmt.Sprintf("%s-%05d-of-%05d.ndjson", prefix, shard, numShards)
}

// Write appends one example to the next shard in round-robin order
func (w *shardWriter) Write(example *dataset.Example) error {
	data, err := json.Marshal(example)
	if err != nil {
		return err
	}

	writer := w.writers[w.next]
	if _, err := writer.Write(data); err != nil {
		return err
	}
	if err := writer.WriteByte('\n'); err != nil {
		return err
	}

	w.next = (w.next + 1) % len(w.writers)
	w.count++
	return nil
}

// Count returns the number of examples written so far
func (w *shardWriter) Count() int {
	return w.count
}

// Close flushes and closes every shard file, reporting the first error.
// Closing an already-closed writer is a no-op, so it is safe both to
// defer Close and to call it explicitly for the error check.
func (w *shardWriter) Close() error {
	var firstErr error
	for i := range w.files {
		if w.files[i] == nil {
			continue
		}
		if w.writers[i] != nil {
			if err := w.writers[i].Flush(); err != nil && firstErr == nil {
				firstErr = err
			}
			w.writers[i] = nil
		}
		if err := w.files[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		w.files[i] = nil
	}
	return firstErr
}
