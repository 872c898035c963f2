package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/karust/rockverify/core"
	"github.com/karust/rockverify/rockhound"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var probeCMD = &cobra.Command{
	Use:   "probe",
	Short: "Check ROCKHOUND is reachable with plain HTTP request, without browser",
	Args:  cobra.NoArgs,
	RunE:  probe,
}

func probe(cmd *cobra.Command, args []string) error {
	opts := config.Rockhound
	opts.Init()

	res, err := core.Probe(opts.URL, time.Second*time.Duration(config.App.Timeout), rockhound.StateInspection(opts))
	if err != nil {
		logrus.Error(err)
		if config.App.IsStrict {
			return err
		}
		return nil
	}

	b, err := json.MarshalIndent(res, "", " ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func init() {
	RootCmd.AddCommand(probeCMD)
}
