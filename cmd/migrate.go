package cmd

import (
	"fmt"

	"discogsapi/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tracks table if it is missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		gdb, err := db.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.AutoMigrate(gdb); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tracks schema ready (%s)\n", cfg.DBDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
