package main

import (
	"github.com/andresmejia3/pixelvault/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	servePort string
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve an API to hide and retrieve files over the web",
	Example: "pixelvault serve --port 8888",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := server.New(engineConfig(nil))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure server")
		}
		if err := s.Run(servePort); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port on which to start the server")
}
