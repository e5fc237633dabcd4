package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/stylekit/internal/cache"
	"github.com/quantmind-br/stylekit/internal/config"
	"github.com/quantmind-br/stylekit/internal/fetcher"
	"github.com/quantmind-br/stylekit/internal/style"
	"github.com/quantmind-br/stylekit/internal/utils"
	"github.com/quantmind-br/stylekit/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stylekit",
	Short: "Fetch and cache project style documents",
	Long: `stylekit resolves style documents from local paths, HTTP(S) URLs,
GitHub repositories (gh://owner/repo/path) and bundled presets
(py://stylekit/...), caching network fetches according to a policy.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.stylekit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("offline", false, "Skip styles that need the network")
	rootCmd.PersistentFlags().String("cache", config.DefaultCachePolicy, `Cache policy: "forever", "never" or a duration such as "1 day"`)
	rootCmd.PersistentFlags().String("cache-dir", "", "Cache root directory")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().String("user-agent", "", "Custom User-Agent")
	rootCmd.PersistentFlags().String("github-token", "", "Token for GitHub styles without one")
	rootCmd.PersistentFlags().String("base-dir", "", "Directory relative style paths are resolved against")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, `Log format: "pretty" or "json"`)

	// Bind flags to viper
	_ = viper.BindPFlag("offline", rootCmd.PersistentFlags().Lookup("offline"))
	_ = viper.BindPFlag("cache.policy", rootCmd.PersistentFlags().Lookup("cache"))
	_ = viper.BindPFlag("cache.directory", rootCmd.PersistentFlags().Lookup("cache-dir"))
	_ = viper.BindPFlag("http.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("http.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	_ = viper.BindPFlag("github.token", rootCmd.PersistentFlags().Lookup("github-token"))
	_ = viper.BindPFlag("files.base_dir", rootCmd.PersistentFlags().Lookup("base-dir"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	configCmd.AddCommand(configInitCmd)
	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd)

	// Add subcommands
	rootCmd.AddCommand(fetchCmd, classifyCmd, resolveCmd, cacheCmd, configCmd, versionCmd)
}

// loadConfig reads configuration and sets up the package logger
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})

	return cfg, nil
}

func newManager(cfg *config.Config) (*style.Manager, error) {
	return style.NewManager(style.Options{
		Offline:     cfg.Offline,
		CacheDir:    cfg.Cache.Directory,
		CacheOption: cfg.Cache.Policy,
		Timeout:     cfg.HTTP.Timeout,
		MaxRetries:  cfg.HTTP.MaxRetries,
		UserAgent:   cfg.HTTP.UserAgent,
		GitHubToken: cfg.GitHub.Token,
		BaseDir:     cfg.Files.BaseDir,
		Logger:      log,
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <style>...",
	Short: "Fetch styles and print their content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		manager, err := newManager(cfg)
		if err != nil {
			return err
		}
		defer manager.Close()

		ctx, cancel := signalContext()
		defer cancel()

		out := cmd.OutOrStdout()
		for _, id := range args {
			info, err := manager.Fetch(ctx, id)
			if err != nil {
				return err
			}
			if info.IsEmpty() && manager.Offline() {
				log.Warn().Str("style", id).Msg("Skipped in offline mode")
				continue
			}
			if len(args) > 1 {
				fmt.Fprintf(out, "# %s\n", id)
			}
			if info.HasPath() {
				log.Info().Str("style", id).Str("path", info.Path).Msg("Fetched")
			}
			fmt.Fprint(out, info.Content)
		}
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <style>...",
	Short: "Show the domain, scheme and fetcher chosen for each style",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		registry := style.BuildRegistry(nil, style.Dependencies{BaseDir: cfg.Files.BaseDir, Logger: log})
		out := cmd.OutOrStdout()
		for _, id := range args {
			host, scheme := style.Classify(id)
			name := "-"
			if f, ok := registry.Lookup(host, scheme); ok {
				name = f.Name()
			}
			fmt.Fprintf(out, "%s\tdomain=%q\tscheme=%q\tfetcher=%s\n", id, host, scheme, name)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <base> <ref>",
	Short: "Resolve a style reference against the style that includes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), style.Resolve(args[0], args[1]))
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the style cache",
}

func openStyleCache(cfg *config.Config) (*cache.BadgerCache, error) {
	return cache.NewBadgerCache(cache.Options{
		Directory: filepath.Join(utils.ExpandPath(cfg.Cache.Directory), fetcher.CacheSubdir),
		Logger:    log,
	})
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location, policy and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStyleCache(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		policy := cfg.CachePolicy()
		stats := store.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Directory:     %s\n", store.Directory())
		fmt.Fprintf(out, "Policy:        %s (cache control: %t)\n", policy, policy.CacheControl())
		fmt.Fprintf(out, "Entries:       %s\n", humanize.Comma(stats.Entries))
		fmt.Fprintf(out, "Size:          %s\n", humanize.Bytes(uint64(stats.LSMSize+stats.VlogSize)))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached style response",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStyleCache(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Directory())
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigFilePath()
		if len(args) == 1 {
			path = utils.ExpandPath(args[0])
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if err := config.Save(config.Default(), path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
