package cmd

import (
	"github.com/karust/rockverify/core"
	"github.com/karust/rockverify/rockhound"
	"github.com/spf13/cobra"
)

var serveCMD = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"listen"},
	Short:   "Start HTTP server to run scenarios and browse screenshots via API",
	Args:    cobra.MatchAll(cobra.NoArgs),
	RunE:    serve,
}

func serve(cmd *cobra.Command, args []string) error {
	catalogue, err := rockhound.New(config.Rockhound)
	if err != nil {
		return err
	}

	launcher, err := newLauncher(config.App.Driver, browserOpts())
	if err != nil {
		return err
	}

	opts := runnerOpts()
	runner := core.NewRunner(launcher, opts)

	serv := core.NewServer(config.Serve, runner.OutputDir, runner, catalogue)
	return serv.Listen()
}

func init() {
	serveCMD.Flags().StringVarP(&config.Serve.Host, "host", "a", "127.0.0.1", "Host address to run server")
	serveCMD.Flags().IntVarP(&config.Serve.Port, "port", "p", 7070, "Port number to run server")
	RootCmd.AddCommand(serveCMD)
}
