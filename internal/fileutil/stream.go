package fileutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the read size used by ReadWithProgress when the caller
// passes a non-positive chunk size.
const DefaultChunkSize = 64 * 1024

// ReadWithProgress reads path to the end in chunks, copying each chunk to
// sink when it is non-nil and then calling progress with the bytes read so
// far and the file size. ctx is checked between chunks. An empty file
// reports (0, 0) once.
func ReadWithProgress(ctx context.Context, path string, chunkSize int, sink io.Writer, progress func(read, total int64)) (retErr error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	f, err := os.Open(path) //nolint:gosec // G304: paths come from the content index
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	total := info.Size()
	if total == 0 && progress != nil {
		progress(0, 0)
	}

	buf := make([]byte, chunkSize)
	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := f.Read(buf)
		if n > 0 {
			if sink != nil {
				if _, err := sink.Write(buf[:n]); err != nil {
					return fmt.Errorf("write chunk of %s: %w", path, err)
				}
			}
			read += int64(n)
			if progress != nil {
				progress(read, total)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}
}
