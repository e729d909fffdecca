package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plsqlnorm/plsqlnorm/internal/encode"
	"github.com/plsqlnorm/plsqlnorm/internal/normalize"
)

var (
	outPath          string
	flagUppercase    bool
	flagNoComments   bool
	flagNoSpaces     bool
	flagNoLiterals   bool
	flagCommentsOnly bool
	flagFull         bool
	lineLimit        int
	probables        []string
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Normalize a single PL/SQL file",
	Long: `Normalize rewrites one PL/SQL object into its canonical form:
- the CREATE declaration is folded onto a single upper-case line
- the body is transformed per the flags below
- literal and comment boundaries are always respected

Example:
  plsqlnorm normalize proc.sql
  plsqlnorm normalize proc.sql --full --out proc.norm.sql
  plsqlnorm normalize pkg.sql --comments-only
  plsqlnorm normalize pkg.sql --no-comments --no-spaces --lines 100`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVar(&outPath, "out", "", "output path (default: stdout)")
	normalizeCmd.Flags().BoolVar(&flagUppercase, "uppercase", false, "upper-case code outside literals and comments")
	normalizeCmd.Flags().BoolVar(&flagNoComments, "no-comments", false, "strip comments from the body")
	normalizeCmd.Flags().BoolVar(&flagNoSpaces, "no-spaces", false, "collapse whitespace runs to one space (requires --no-comments)")
	normalizeCmd.Flags().BoolVar(&flagNoLiterals, "no-literals", false, "empty the interior of string literals")
	normalizeCmd.Flags().BoolVar(&flagCommentsOnly, "comments-only", false, "output the comments only, everything else stripped")
	normalizeCmd.Flags().BoolVar(&flagFull, "full", false, "same as --uppercase --no-comments --no-spaces")
	normalizeCmd.Flags().IntVar(&lineLimit, "lines", 0, "normalize only the first N source lines, append the rest verbatim")
	normalizeCmd.Flags().StringSliceVar(&probables, "probables", nil, "encodings to try for non-UTF-8 input (default: cp866,cp1251,koi8-r)")
}

// buildFlags assembles the normalization flag set from the command line and
// the configured defaults.
func buildFlags() (normalize.Flags, error) {
	var f normalize.Flags
	for _, name := range loadConfig().Normalize.Flags {
		if err := f.Set(name); err != nil {
			return f, err
		}
	}
	if flagUppercase {
		f.Uppercase = true
	}
	if flagNoComments {
		f.NoComments = true
	}
	if flagNoSpaces {
		f.NoSpaces = true
	}
	if flagNoLiterals {
		f.NoLiterals = true
	}
	if flagCommentsOnly {
		f.CommentsOnly = true
	}
	if flagFull {
		full := normalize.Full()
		f.Uppercase, f.NoComments, f.NoSpaces = full.Uppercase, full.NoComments, full.NoSpaces
	}
	return f, nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	flags, err := buildFlags()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	src, err := encode.DecodeToString(raw, effectiveProbables())
	if err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Normalizing: %s\n", args[0])
	}

	out, err := normalize.Normalize(src, normalize.Options{Flags: flags, Lines: lineLimit})
	if err != nil {
		return fmt.Errorf("normalize failed: %w", err)
	}

	if outPath == "" {
		_, err = os.Stdout.WriteString(out)
		return err
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outPath)
	}
	return nil
}

// effectiveProbables prefers the --probables flag over the configured list.
func effectiveProbables() []string {
	if len(probables) > 0 {
		return probables
	}
	return loadConfig().Encoding.Probables
}
