package verify

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressFunc receives throttled byte-progress updates while a file is
// being hashed, keeping the caller's UI responsive on large files.
type ProgressFunc func(path string, current, total int64)

// Progress throttling: report at most every interval or every reportBytes,
// whichever comes first.
const (
	progressReportInterval = 50 * time.Millisecond
	progressReportBytes    = 64 * 1024
)

// Hasher computes streaming SHA-256 digests with constant memory and
// cooperative cancellation. Two files are identical iff their digests match;
// there is no size/mtime-only fallback.
type Hasher struct {
	bufferSize int
	bufferPool *sync.Pool
	progress   ProgressFunc
}

// NewHasher creates a hasher with the given read buffer size (minimum 4KiB).
func NewHasher(bufferSize int) *Hasher {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &Hasher{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetProgressCallback sets the progress reporting callback.
func (h *Hasher) SetProgressCallback(fn ProgressFunc) {
	h.progress = fn
}

// Hash computes the SHA-256 digest of the file at path. Cancellation is
// checked between reads, so it takes effect without corrupting state.
func (h *Hasher) Hash(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	total := info.Size()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()

	bufPtr := h.bufferPool.Get().(*[]byte)
	buf := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	var read int64
	var lastReported int64
	lastReportTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := f.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
			read += int64(n)

			if h.progress != nil {
				shouldReport := read-lastReported >= progressReportBytes ||
					time.Since(lastReportTime) >= progressReportInterval
				if shouldReport {
					h.progress(path, read, total)
					lastReported = read
					lastReportTime = time.Now()
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	if h.progress != nil && read > lastReported {
		h.progress(path, read, total)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Compare hashes both files in parallel and reports whether their contents
// are identical. Differing sizes short-circuit without reading either file;
// only the caller's cross-volume check is allowed to skip hashing entirely.
func (h *Hasher) Compare(ctx context.Context, pathA, pathB string) (bool, error) {
	infoA, err := os.Stat(pathA)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", pathA, err)
	}
	infoB, err := os.Stat(pathB)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", pathB, err)
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	var hashA, hashB string
	var errA, errB error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		hashA, errA = h.Hash(ctx, pathA)
	}()
	go func() {
		defer wg.Done()
		hashB, errB = h.Hash(ctx, pathB)
	}()
	wg.Wait()

	if errA != nil {
		return false, errA
	}
	if errB != nil {
		return false, errB
	}

	return hashA == hashB, nil
}
