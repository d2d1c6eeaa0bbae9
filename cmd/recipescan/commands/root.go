// Package commands implements the CLI commands for recipescan.
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/pkg/cleaner"
	"github.com/jmylchreest/recipescan/pkg/fetcher"
	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

var rootCmd = &cobra.Command{
	Use:   "recipescan",
	Short: "Extract structured recipes from web pages",
	Long: `Recipescan pulls recipes out of the structured data publishers embed
in their pages: schema.org JSON-LD, Next.js hydration payloads and
microdata. No LLM, no guessing from prose.

Examples:
  # Extract a recipe
  recipescan scan -u "https://example.com/best-lasagne"

  # Extract from a saved page, as a readable card
  recipescan scan -f lasagne.html --format text

  # Run the HTTP API
  recipescan serve --addr :8080

  # Hand a URL over from another process, then scan it
  recipescan pending set "https://example.com/best-lasagne"
  recipescan pending scan`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()

	// Global flags
	flags.String("config", "", "config file (default $HOME/.recipescan.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.Bool("log-json", false, "log as JSON")

	// Fetch and extraction settings shared by scan, serve and pending scan
	flags.String("fetch-mode", string(fetcher.ModeStatic), "fetch mode: static, dynamic")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("user-agent", "", "override the fetch user agent")
	flags.String("max-body-size", "10MiB", "max page size to download (e.g. 512KB, 10MiB, 0=unlimited)")
	flags.String("polish", string(cleaner.ModeOff), "clean extracted text: off, text, steps, full (bare --polish means full)")
	flags.Lookup("polish").NoOptDefVal = string(cleaner.ModeFull)

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("fetch_mode", flags.Lookup("fetch-mode"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	_ = viper.BindPFlag("max_body_size", flags.Lookup("max-body-size"))
	_ = viper.BindPFlag("polish", flags.Lookup("polish"))
}

func initConfig() {
	// A .env in the working directory feeds RECIPESCAN_* variables.
	_ = godotenv.Load()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".recipescan")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("RECIPESCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// scannerOptions builds library options from flags, env and config.
func scannerOptions() ([]recipescan.Option, error) {
	opts := []recipescan.Option{
		recipescan.WithFetchMode(fetcher.Mode(viper.GetString("fetch_mode"))),
		recipescan.WithTimeout(viper.GetDuration("timeout")),
		recipescan.WithPolish(polishMode(viper.GetString("polish"))),
	}
	if ua := viper.GetString("user_agent"); ua != "" {
		opts = append(opts, recipescan.WithUserAgent(ua))
	}

	size, err := parseSize(viper.GetString("max_body_size"))
	if err != nil {
		return nil, fmt.Errorf("invalid max-body-size: %w", err)
	}
	opts = append(opts, recipescan.WithMaxBodySize(size))

	return opts, nil
}

// polishMode reads the polish setting. Boolean values from older config
// files map to full and off.
func polishMode(s string) cleaner.Mode {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "true":
		return cleaner.ModeFull
	case "false", "":
		return cleaner.ModeOff
	}
	return cleaner.Mode(s)
}

// newScanner creates a scanner from flags, env and config.
func newScanner(extra ...recipescan.Option) (*recipescan.Scanner, error) {
	opts, err := scannerOptions()
	if err != nil {
		return nil, err
	}
	return recipescan.New(append(opts, extra...)...)
}

// parseSize parses a human size such as "10MiB". Empty and "0" mean
// unlimited.
func parseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
