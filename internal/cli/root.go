package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X .../internal/cli.version=..."
var version = "v0.1.0"

// ErrQueryFailed is returned by check when the response status is error.
// The response has already been printed.
var ErrQueryFailed = errors.New("query resolved with status error")

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimcheck",
	Short: "claimcheck - search published fact checks for a claim",
	Long: `claimcheck looks up a free-text claim or topic in the Google Fact Check
Tools claims search and prints the matching third-party reviews with a
normalized verdict.

When nothing matches, a generative model proposes up to three alternative
queries. claimcheck never judges claims itself; it only reports what
fact-checkers have published.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			level = zapcore.InfoLevel
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		config.Level = zap.NewAtomicLevelAt(level)

		built, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "claimcheck %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimcheck/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")
	flags.Duration("timeout", 0, "per-query deadline (default from http.request_timeout)")
	flags.String("llm-provider", "", "suggestion provider: gemini, openai, anthropic, ollama, none")
	flags.String("llm-model", "", "suggestion model name")
	flags.Bool("cache", false, "cache upstream search results")
	flags.String("redis-addr", "", "share the search cache through Redis at this address")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("http.request_timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("llm.provider", flags.Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", flags.Lookup("llm-model"))
	_ = viper.BindPFlag("cache.enabled", flags.Lookup("cache"))
	_ = viper.BindPFlag("cache.redis_addr", flags.Lookup("redis-addr"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and CLAIMCHECK_* environment variables
func initConfig() {
	// .env is optional; existing environment variables win
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if dir, err := configDir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	configureViper(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configureViper registers defaults and environment handling on v
func configureViper(v *viper.Viper) {
	setDefaults(v)
	v.SetEnvPrefix("CLAIMCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claimcheck"), nil
}
