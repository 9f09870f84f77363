package cmd

import (
	"fmt"

	biblestudy "github.com/Tiag8/bible-study-sub001"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "study"
	defaultServer  = "http://localhost:4020"
)

var Token string

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	rootCmd.AddCommand(contextCommand)
	contextCommand.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

type Context struct {
	Token  string `json:"token"`
	Server string `json:"server"`
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var token string
	var server string

	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if token == "" {
				color.Red(`missing: --token`)
				return
			}

			if server == "" {
				server = defaultServer
			}

			writeContext(Context{
				Token:  token,
				Server: server,
			})
		},
	}

	command.Flags().StringVarP(&token, "token", "t", "", "token")
	command.Flags().StringVarP(&server, "server", "s", "", "server url")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := readContext()
			if cfg.Token == "" {
				color.Red("no context set")
				return
			}
			fmt.Printf("server: %s\ntoken: %s\n", cfg.Server, cfg.Token)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			writeContext(Context{})
		},
	}

	return command
}

func writeContext(context Context) {
	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")
	viper.Set("context", context)

	if err := viper.WriteConfig(); err != nil {
		fmt.Println("error writing config file: ", err)
	} else {
		fmt.Println("context saved")
	}
}

func readContext() Context {
	var ctx Context

	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return ctx
	}

	if err := viper.UnmarshalKey("context", &ctx); err != nil {
		return ctx
	}

	return ctx
}

func bindContextFlags(command *cobra.Command) {
	command.Flags().StringVarP(&Token, "token", "t", "", "token")
}

// apiClient builds a client from the saved context, the --token flag wins
// when set.
func apiClient() biblestudy.Client {
	cfg := readContext()
	if Token == "" {
		Token = cfg.Token
	}

	server := cfg.Server
	if server == "" {
		server = defaultServer
	}

	return biblestudy.NewClient(server, Token)
}
