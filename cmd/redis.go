package cmd

import (
	"context"
	"fmt"
	"time"

	"discogsapi/db"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection",
	Long:  `Connect to the configured Redis instance and perform a set/get/delete round trip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.RedisEnabled() {
			return fmt.Errorf("REDIS_HOST is not set")
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Redis: %s, DB: %d\n", cfg.RedisAddr(), cfg.RedisDB)

		client, err := db.ConnectRedis(cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.CheckRedis(ctx, client); err != nil {
			return err
		}
		fmt.Fprintln(out, "Redis round trip ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
