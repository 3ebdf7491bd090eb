package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

const stagingDir = "tmp"

// newBatchID names one flush of a Writer. The turns and games files of a
// flush share it, and the leading timestamp keeps a sorted glob oldest first.
func newBatchID() string {
	return fmt.Sprintf("%019d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}

// batch is the parquet file of one kind (turns or games) for one flush.
// It is written under <kindDir>/tmp and renamed into kindDir on commit, so a
// glob over kindDir only ever sees complete files.
type batch[T any] struct {
	staged string
	final  string
	f      *os.File
	pw     *parquet.GenericWriter[T]
	rows   int
}

func openBatch[T any](kindDir, id, schema string) (*batch[T], error) {
	staging := filepath.Join(kindDir, stagingDir)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", staging, err)
	}
	name := id + ".parquet"
	b := &batch[T]{
		staged: filepath.Join(staging, name),
		final:  filepath.Join(kindDir, name),
	}
	f, err := os.Create(b.staged)
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	b.f = f
	b.pw = parquet.NewGenericWriter[T](f, parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}))
	b.pw.SetKeyValueMetadata("schema", schema)
	return b, nil
}

func (b *batch[T]) append(rows ...T) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := b.pw.Write(rows); err != nil {
		return fmt.Errorf("append to %s: %w", filepath.Base(b.final), err)
	}
	b.rows += len(rows)
	return nil
}

// commit closes the file and moves it into place. A batch without rows is
// removed and commit returns an empty path.
func (b *batch[T]) commit() (string, error) {
	if err := errors.Join(b.pw.Close(), b.f.Sync(), b.f.Close()); err != nil {
		_ = os.Remove(b.staged)
		return "", fmt.Errorf("close %s: %w", filepath.Base(b.final), err)
	}
	if b.rows == 0 {
		return "", os.Remove(b.staged)
	}
	if err := os.Rename(b.staged, b.final); err != nil {
		return "", fmt.Errorf("publish %s: %w", filepath.Base(b.final), err)
	}
	return b.final, nil
}
