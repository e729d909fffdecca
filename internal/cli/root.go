package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plsqlnorm/plsqlnorm/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "plsqlnorm",
	Short: "plsqlnorm - canonical normalization of PL/SQL source files",
	Long: `plsqlnorm rewrites PL/SQL objects (procedures, functions, packages and
package bodies) into a canonical form suitable for diffing, style checks
and redaction - without a database and without parsing the PL/SQL grammar.

It classifies the source lexically (comments, string literals including
q'X...Y' custom-quoted ones, quoted identifiers) and applies independent
transformations on top of that classification, so a comment marker inside
a literal is never mistaken for a comment and literal content is never
upper-cased.

It also recognizes and decodes Oracle's wrapped object envelope, and can
drive the external Oracle wrap utility when one is installed.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("plsqlnorm v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.plsqlnorm/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.plsqlnorm")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match PLSQLNORM_*
	viper.SetEnvPrefix("PLSQLNORM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration: defaults overridden by
// whatever the config file and environment provide.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	_ = viper.Unmarshal(cfg)
	return cfg
}
