package cmd

import (
	"fmt"
	"time"

	"github.com/karust/rockverify/core"
	"github.com/karust/rockverify/rockhound"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runAll bool

var runCMD = &cobra.Command{
	Use:     "run [scenario...]",
	Aliases: []string{"verify"},
	Short:   "Run scenarios against ROCKHOUND (app, debug, fix, revolutionary)",
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

func run(cmd *cobra.Command, args []string) error {
	catalogue, err := rockhound.New(config.Rockhound)
	if err != nil {
		return err
	}

	scenarios, err := selectScenarios(catalogue, args, runAll)
	if err != nil {
		return err
	}

	launcher, err := newLauncher(config.App.Driver, browserOpts())
	if err != nil {
		return err
	}
	runner := core.NewRunner(launcher, runnerOpts())

	failed := runScenarios(runner, scenarios)
	if failed > 0 && config.App.IsStrict {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return nil
}

func selectScenarios(catalogue *core.Catalogue, names []string, all bool) ([]core.Scenario, error) {
	if all {
		return catalogue.All(), nil
	}
	if len(names) == 0 {
		names = []string{rockhound.AppScenario}
	}

	scenarios := []core.Scenario{}
	for _, name := range names {
		sc, err := catalogue.Get(name)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// runScenarios runs one after another and returns number of failed ones
func runScenarios(runner core.ScenarioRunner, scenarios []core.Scenario) int {
	failed := 0
	for _, sc := range scenarios {
		report := runner.Run(sc)
		if !report.Success {
			failed += 1
			logrus.Warnf("Scenario %s failed: %s", sc.Name, report.Error)
			continue
		}
		logrus.Infof("Scenario %s passed in %s", sc.Name, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
	return failed
}

func init() {
	runCMD.Flags().BoolVarP(&runAll, "all", "", false, "Run every scenario")
	RootCmd.AddCommand(runCMD)
}
