package cmd

import (
	"github.com/Tiag8/bible-study-sub001/internal/config"
	"github.com/Tiag8/bible-study-sub001/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "start the study server",
		Run: func(cmd *cobra.Command, args []string) {
			if port == "" {
				port = config.LoadConfig().HttpPort
			}
			server.NewServer(port, false).Start()
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "", "http port")

	return command
}
