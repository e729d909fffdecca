package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plsqlnorm/plsqlnorm/internal/encode"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a legacy-encoded file to UTF-8",
	Long: `Decode converts a file in a legacy single-byte encoding to UTF-8.
Valid UTF-8 input passes through untouched; otherwise the probable
encodings are tried in order and the first clean decoding wins.

Example:
  plsqlnorm decode old.sql --out utf8.sql
  plsqlnorm decode old.sql --probables cp1251,koi8-r`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVar(&outPath, "out", "", "output path (default: stdout)")
	decodeCmd.Flags().StringSliceVar(&probables, "probables", nil, "encodings to try (default: cp866,cp1251,koi8-r)")
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	decoded, err := encode.DecodeToString(raw, effectiveProbables())
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.WriteString(decoded)
		return err
	}
	if err := os.WriteFile(outPath, []byte(decoded), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Decoded %s -> %s\n", args[0], outPath)
	}
	return nil
}
