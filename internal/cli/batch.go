package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plsqlnorm/plsqlnorm/internal/normalize"
	"github.com/plsqlnorm/plsqlnorm/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	filesPerSec  float64
	burst        int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file-list>",
	Short: "Normalize many PL/SQL files in parallel",
	Long: `Batch normalizes multiple files concurrently:
- Read file paths from the list file (one per line, # starts a comment)
- Process files in parallel with a configurable worker count
- Write each normalized file under the output directory, same base name

Example:
  plsqlnorm batch files.txt --full
  plsqlnorm batch files.txt --concurrency 8 --output-dir ./normalized
  plsqlnorm batch files.txt --fps 50 --burst 10`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: NumCPU)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for normalized files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&filesPerSec, "fps", 0, "max files started per second, 0 = unlimited (for shared storage)")
	batchCmd.Flags().IntVar(&burst, "burst", 0, "throttle burst size")

	// Normalization flags, shared with the normalize command
	batchCmd.Flags().BoolVar(&flagUppercase, "uppercase", false, "upper-case code outside literals and comments")
	batchCmd.Flags().BoolVar(&flagNoComments, "no-comments", false, "strip comments from the body")
	batchCmd.Flags().BoolVar(&flagNoSpaces, "no-spaces", false, "collapse whitespace runs to one space (requires --no-comments)")
	batchCmd.Flags().BoolVar(&flagNoLiterals, "no-literals", false, "empty the interior of string literals")
	batchCmd.Flags().BoolVar(&flagCommentsOnly, "comments-only", false, "output the comments only, everything else stripped")
	batchCmd.Flags().BoolVar(&flagFull, "full", false, "same as --uppercase --no-comments --no-spaces")
	batchCmd.Flags().StringSliceVar(&probables, "probables", nil, "encodings to try for non-UTF-8 input")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if concurrency <= 0 {
		concurrency = cfg.Batch.Workers
	}
	if outputDir == "" {
		outputDir = cfg.Batch.OutputDir
	}
	if filesPerSec <= 0 {
		filesPerSec = cfg.Batch.FilesPerSecond
	}
	if burst <= 0 {
		burst = cfg.Batch.Burst
	}

	flags, err := buildFlags()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Input list:   %s\n", args[0])
		fmt.Fprintf(os.Stderr, "Workers:      %d\n", concurrency)
		fmt.Fprintf(os.Stderr, "Output dir:   %s\n", outputDir)
		fmt.Fprintln(os.Stderr)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(
		outputDir,
		normalize.Options{Flags: flags},
		effectiveProbables(),
		concurrency,
		filesPerSec,
		burst,
	)

	results, err := processor.ProcessList(ctx, args[0])
	if err != nil {
		return fmt.Errorf("process list: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}
		successCount++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s -> %s\n", result.Path, result.OutPath)
		}
	}

	fmt.Fprintf(os.Stderr, "Total: %d  Success: %d  Failures: %d\n", len(results), successCount, failureCount)
	if failureCount > 0 {
		return fmt.Errorf("%d of %d files failed", failureCount, len(results))
	}
	return nil
}
