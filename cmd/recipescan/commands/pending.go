package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/internal/pending"
	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Manage the URL handed over for scanning",
	Long: `A share surface (browser extension, phone share sheet, another
process) drops a single URL into the pending store; the app picks it up
later with 'pending scan'.

The file store keeps the URL in a JSON file that every process on the
machine can see. The redis store shares it across machines.

Examples:
  recipescan pending set "https://example.com/best-lasagne"
  recipescan pending get
  recipescan pending scan --format text
  recipescan pending clear --store redis --redis-addr cache:6379`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCmd.PersistentPreRun(cmd, args)
		bindStoreFlags(cmd.Flags())
	},
}

var pendingSetCmd = &cobra.Command{
	Use:   "set URL",
	Short: "Set the pending URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(s pending.Store) error {
			if err := s.Set(cmd.Context(), args[0]); err != nil {
				return err
			}
			logInfo("pending url set")
			return nil
		})
	},
}

var pendingGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the pending URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(s pending.Store) error {
			u, err := s.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		})
	},
}

var pendingClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the pending URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(s pending.Store) error {
			return s.Clear(cmd.Context())
		})
	},
}

var pendingScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the pending URL and clear it",
	Args:  cobra.NoArgs,
	RunE:  runPendingScan,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.AddCommand(pendingSetCmd, pendingGetCmd, pendingClearCmd, pendingScanCmd)

	addStoreFlags(pendingCmd.PersistentFlags(), "file")

	flags := pendingScanCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml, text")
	flags.Bool("include-metadata", true, "wrap the recipe with url, method and warnings")
}

func runPendingScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withStore(ctx, func(s pending.Store) error {
		u, err := s.Get(ctx)
		if err != nil {
			return err
		}
		logger.Info("scanning pending url", "url", u)

		scanner, err := newScanner()
		if err != nil {
			return err
		}
		defer func() { _ = scanner.Close() }()

		result, err := scanner.Scan(ctx, u)
		if err != nil {
			// A page without a recipe will never succeed; drop it.
			if errors.Is(err, recipescan.ErrNoRecipeFound) {
				_ = s.Clear(ctx)
			}
			return fmt.Errorf("%s: %w", u, err)
		}

		writer, closeOut, err := openWriter(cmd)
		if err != nil {
			return err
		}
		defer closeOut()
		if err := writer.Write(result); err != nil {
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}
		return s.Clear(ctx)
	})
}

// addStoreFlags registers the pending store flags on fs.
func addStoreFlags(fs *pflag.FlagSet, defaultStore string) {
	fs.String("store", defaultStore, "pending store: memory, file, redis")
	fs.String("pending-dir", "", "directory for the file store (default: user cache dir)")
	fs.String("redis-addr", "localhost:6379", "redis address for the redis store")
	fs.String("redis-password", "", "redis password")
	fs.Int("redis-db", 0, "redis database")
	fs.String("redis-key", pending.DefaultRedisKey, "redis key holding the pending url")
}

// bindStoreFlags binds the store flags of the running command to viper.
// Binding happens at run time because serve and pending share the keys.
func bindStoreFlags(fs *pflag.FlagSet) {
	for key, flag := range map[string]string{
		"store":          "store",
		"pending_dir":    "pending-dir",
		"redis.addr":     "redis-addr",
		"redis.password": "redis-password",
		"redis.db":       "redis-db",
		"redis.key":      "redis-key",
	} {
		if f := fs.Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

// openStore opens the configured pending store. "none" returns nil.
func openStore(ctx context.Context) (pending.Store, func(), error) {
	noop := func() {}
	switch kind := viper.GetString("store"); kind {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return pending.NewMemory(), noop, nil
	case "file":
		dir := viper.GetString("pending_dir")
		if dir == "" {
			cache, err := os.UserCacheDir()
			if err != nil {
				return nil, noop, fmt.Errorf("locate cache dir: %w", err)
			}
			dir = filepath.Join(cache, "recipescan")
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, noop, fmt.Errorf("create pending dir: %w", err)
		}
		logger.Debug("using file pending store", "dir", dir)
		return pending.NewFileInDir(dir), noop, nil
	case "redis":
		s, err := pending.NewRedis(ctx, pending.RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			Key:      viper.GetString("redis.key"),
		})
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown pending store: %s (use memory, file or redis)", kind)
	}
}

func withStore(ctx context.Context, fn func(pending.Store) error) error {
	s, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	if s == nil {
		return errors.New("no pending store configured")
	}
	return fn(s)
}
