package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plsqlnorm/plsqlnorm/internal/encode"
	"github.com/plsqlnorm/plsqlnorm/internal/normalize"
)

// FileJob normalizes a single file into the output directory.
type FileJob struct {
	Path      string
	OutDir    string
	Opts      normalize.Options
	Probables []string
	Throttle  *Throttle
}

// FileResult is the outcome of one FileJob.
type FileResult struct {
	Path    string
	OutPath string
	Error   error
}

// GetError returns the error from the file result.
func (r *FileResult) GetError() error { return r.Error }

// Execute reads, decodes and normalizes the file, writing the result under
// OutDir with the file's own name.
func (j *FileJob) Execute(ctx context.Context) Result {
	if err := j.Throttle.Wait(ctx); err != nil {
		return &FileResult{Path: j.Path, Error: err}
	}

	raw, err := os.ReadFile(j.Path)
	if err != nil {
		return &FileResult{Path: j.Path, Error: fmt.Errorf("read: %w", err)}
	}
	src, err := encode.DecodeToString(raw, j.Probables)
	if err != nil {
		return &FileResult{Path: j.Path, Error: fmt.Errorf("decode: %w", err)}
	}
	out, err := normalize.Normalize(src, j.Opts)
	if err != nil {
		return &FileResult{Path: j.Path, Error: err}
	}

	outPath := filepath.Join(j.OutDir, filepath.Base(j.Path))
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return &FileResult{Path: j.Path, Error: fmt.Errorf("write: %w", err)}
	}
	return &FileResult{Path: j.Path, OutPath: outPath}
}

// BatchProcessor normalizes many files concurrently.
type BatchProcessor struct {
	outDir      string
	opts        normalize.Options
	probables   []string
	concurrency int
	throttle    *Throttle
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(outDir string, opts normalize.Options, probables []string, concurrency int, filesPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		outDir:      outDir,
		opts:        opts,
		probables:   probables,
		concurrency: concurrency,
		throttle:    NewThrottle(filesPerSecond, burst),
	}
}

// ProcessFiles normalizes paths concurrently and returns one result per
// input file, in completion order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(b.concurrency, len(paths))
	pool.Start()
	go func() {
		<-ctx.Done()
		pool.Shutdown()
	}()

	for _, p := range paths {
		pool.Submit(&FileJob{
			Path:      p,
			OutDir:    b.outDir,
			Opts:      b.opts,
			Probables: b.probables,
			Throttle:  b.throttle,
		})
	}

	results := pool.Wait()
	out := make([]*FileResult, 0, len(results))
	for _, r := range results {
		if fr, ok := r.(*FileResult); ok {
			out = append(out, fr)
		}
	}
	return out
}

// ProcessList reads file paths from a list file (one per line, blank lines
// and #-comments skipped) and processes them.
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*FileResult, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer f.Close()

	var paths []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read list file: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}
