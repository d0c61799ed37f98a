package cmd

import (
	"discogsapi/server"

	"github.com/spf13/cobra"
)

var (
	serverAddr   string
	serverPublic bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP server exposing the tracks API, its documentation and a health endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr = serverAddr
		}
		if cmd.Flags().Changed("public-tracks") {
			cfg.PublicTracksEnabled = serverPublic
		}
		return runServer()
	},
}

func runServer() error {
	return server.Start(cfg)
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", ":3000", "listen address, overrides HTTP_ADDR")
	serverCmd.Flags().BoolVar(&serverPublic, "public-tracks", false, "also mount the tracks API at /tracks without authentication")
	rootCmd.AddCommand(serverCmd)
}
