package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plsqlnorm/plsqlnorm/internal/wrap"
)

// unwrapCmd represents the unwrap command
var unwrapCmd = &cobra.Command{
	Use:   "unwrap <file>",
	Short: "Decode a wrapped PL/SQL file back to source",
	Long: `Unwrap decodes Oracle's wrapped object envelope and restores the
original CREATE statement. No database and no Oracle installation is
needed. The result is unpredictable when the input is not actually
wrapped; run 'plsqlnorm check' first when in doubt.

Example:
  plsqlnorm unwrap pkg.plb --out pkg.sql`,
	Args: cobra.ExactArgs(1),
	RunE: runUnwrap,
}

// wrapCmd represents the wrap command
var wrapCmd = &cobra.Command{
	Use:   "wrap <file>",
	Short: "Wrap a PL/SQL file with the Oracle wrap utility",
	Long: `Wrap drives $ORACLE_HOME/bin/wrap (which must be installed separately)
and verifies that the output really carries the wrapped envelope - the
utility is known to silently skip wrapping on input it dislikes.

Example:
  plsqlnorm wrap pkg.sql --out pkg.plb`,
	Args: cobra.ExactArgs(1),
	RunE: runWrap,
}

func init() {
	rootCmd.AddCommand(unwrapCmd)
	rootCmd.AddCommand(wrapCmd)

	unwrapCmd.Flags().StringVar(&outPath, "out", "", "output path (default: stdout)")
	wrapCmd.Flags().StringVar(&outPath, "out", "", "output path (required, must have an extension)")
	_ = wrapCmd.MarkFlagRequired("out")
}

func runUnwrap(cmd *cobra.Command, args []string) error {
	if outPath == "" {
		return wrap.UnwrapFile(args[0], os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := wrap.UnwrapFile(args[0], f); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Unwrapped %s -> %s\n", args[0], outPath)
	}
	return nil
}

func runWrap(cmd *cobra.Command, args []string) error {
	if err := wrap.Run(args[0], outPath); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrapped %s -> %s\n", args[0], outPath)
	}
	return nil
}
