package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tandem-sim/tandem-sim/sim"
	"github.com/tandem-sim/tandem-sim/sim/trace"
)

// Scenario is one named parameter set of a sweep file.
type Scenario struct {
	Name       string `yaml:"name"`
	sim.Config `yaml:",inline"`
}

// ScenarioFile represents the full structure of a sweep file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioFile struct {
	Version   string     `yaml:"version"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// loadScenarios parses a sweep file with strict field checking, so typos
// in parameter names are errors rather than silent zeros.
func loadScenarios(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	var sf ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML %s: %w", path, err)
	}
	if len(sf.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s lists no scenarios", path)
	}
	for i, sc := range sf.Scenarios {
		if sc.Name == "" {
			sf.Scenarios[i].Name = fmt.Sprintf("scenario_%d", i)
		}
	}
	return &sf, nil
}

// newSweepCommand builds the `sweep` command: every scenario of a file runs
// in turn and prints one JSON report line.
func newSweepCommand() *cobra.Command {
	var scenarioPath string
	c := &cobra.Command{
		Use:   "sweep",
		Short: "Run every scenario of a YAML file sequentially",
		Run: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)

			sf, err := loadScenarios(scenarioPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			// Reject the whole file before running anything.
			for _, sc := range sf.Scenarios {
				if err := sc.Config.Validate(); err != nil {
					logrus.Fatalf("scenario %q: %v", sc.Name, err)
				}
			}
			for _, sc := range sf.Scenarios {
				logrus.Infof("Running scenario %q", sc.Name)
				report, _, err := runSimulation(cmd.Context(), sc.Config, trace.TraceConfig{Level: trace.TraceLevelNone})
				if err != nil {
					logrus.Fatalf("scenario %q: %v", sc.Name, err)
				}
				report.Scenario = sc.Name
				if err := writeReport(cmd.OutOrStdout(), report); err != nil {
					logrus.Fatalf("Unable to write results: %v", err)
				}
			}
		},
	}
	c.Flags().StringVar(&scenarioPath, "scenarios", "", "Path to the scenario YAML file")
	_ = c.MarkFlagRequired("scenarios")
	return c
}
