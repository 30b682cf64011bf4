package output

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
)

// HashProgress bridges the verifier's byte-progress callbacks to a terminal
// progress bar. On non-TTY outputs it stays silent so piped output remains
// clean. Hashing two files in parallel drives two callbacks, so updates are
// serialized and one bar is shown per path.
type HashProgress struct {
	mu   sync.Mutex
	bars map[string]*pb.ProgressBar
	tty  bool
}

// NewHashProgress creates a progress sink for hash verification.
func NewHashProgress() *HashProgress {
	return &HashProgress{
		bars: make(map[string]*pb.ProgressBar),
		tty:  isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}

// Report is the verify.ProgressFunc implementation.
func (p *HashProgress) Report(path string, current, total int64) {
	if !p.tty {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bar, ok := p.bars[path]
	if !ok {
		bar = pb.New64(total)
		bar.Set(pb.Bytes, true)
		bar.Set("prefix", filepath.Base(path)+" ")
		bar.SetWriter(os.Stderr)
		bar.Start()
		p.bars[path] = bar
	}

	bar.SetCurrent(current)
	if current >= total {
		bar.Finish()
		delete(p.bars, path)
	}
}

// Close finishes any bar still on screen.
func (p *HashProgress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for path, bar := range p.bars {
		bar.Finish()
		delete(p.bars, path)
	}
}
