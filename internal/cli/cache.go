package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the search result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached search results",
	Long: `Clear removes every claimcheck entry from the configured cache.
Only the shared Redis cache outlives a process, so this is mainly useful
with --redis-addr or cache.redis_addr set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		a := &app{cfg: cfg}
		c, err := a.openCache(logger)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := c.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ Cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
