package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plsqlnorm/plsqlnorm/internal/cache"
	"github.com/plsqlnorm/plsqlnorm/internal/normalize"
)

var noCache bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Classify PL/SQL files: sql / wrapped / wrappable",
	Long: `Check reports, for each file, whether it is a single supported PL/SQL
object (sql), whether it carries the wrapped envelope (wrapped), and
whether it can be handed to the Oracle wrap utility (wrappable).

The queries never fail on malformed input: anything that is not a single
supported CREATE object simply reports sql=false. Results are memoized by
content hash so re-checking unchanged files is free.

Example:
  plsqlnorm check pkg.sql
  plsqlnorm check src/*.sql --no-cache`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable classification memoization")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	var classifier *normalize.Classifier
	if cfg.Cache.Enabled && !noCache {
		mem := cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		classifier = normalize.NewClassifier(mem, cfg.Cache.TTL)
	}

	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		cl := classifier.Classify(string(raw))
		fmt.Printf("%s: sql=%t wrapped=%t wrappable=%t", path, cl.SQL, cl.Wrapped, cl.Wrappable)
		if cl.SQL {
			fmt.Printf(" type=%q name=%q", cl.ObjectType, cl.ObjectName)
		}
		fmt.Println()
	}
	return nil
}
