package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var envFlag string

var rootCmd = &cobra.Command{
	Use:   "stagecast",
	Short: "Stage and backstage broadcast server",
	Long: `stagecast joins each participant of a live event to its stage and backstage
sessions, publishes hosts and celebrities on stage and relays stream, state
and signal events to the browser over a websocket feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), envFlag)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "config environment, loads config/config.<env>.yaml (default $CONFIG_ENV or dev)")
	rootCmd.AddCommand(serveCmd, configCmd)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("stagecast failed")
		os.Exit(1)
	}
}
