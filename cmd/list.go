package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/karust/rockverify/core"
	"github.com/karust/rockverify/rockhound"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCMD = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List scenarios and their steps",
	Args:    cobra.NoArgs,
	RunE:    list,
}

func list(cmd *cobra.Command, args []string) error {
	catalogue, err := rockhound.New(config.Rockhound)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		b, err := json.MarshalIndent(catalogue.All(), "", " ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}

	for _, sc := range catalogue.All() {
		printScenario(out, sc)
	}
	return nil
}

func printScenario(out io.Writer, sc core.Scenario) {
	fmt.Fprintf(out, "%s - %s\n", sc.Name, sc.Description)
	for i, step := range sc.Steps {
		kind := "optional"
		if step.Required {
			kind = "required"
		}

		markers := []string{}
		for _, m := range step.Markers {
			markers = append(markers, fmt.Sprintf("%s (%s)", m.Locator, m.Timeout))
		}
		fmt.Fprintf(out, "  %d. %-10s [%s] %s\n", i+1, step.Name, kind, strings.Join(markers, " | "))
	}
}

func init() {
	listCMD.Flags().BoolVarP(&listJSON, "json", "", false, "Print as JSON")
	RootCmd.AddCommand(listCMD)
}
