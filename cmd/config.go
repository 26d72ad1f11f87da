package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tandem-sim/tandem-sim/sim"
)

// Parameter keys. Flags, config-file keys and environment variables
// (TANDEMSIM_ prefix, dashes as underscores) all use these names.
const (
	flagLength             = "length"
	flagSimulationTime     = "simulation-time"
	flagGenerationConstant = "generation-constant"
	flagQueueConstant      = "queue-constant"
	flagLambdaOn           = "lambda-on"
	flagLambdaOff          = "lambda-off"
	flagStreams            = "streams"
	flagDropped            = "dropped"
	flagSeed               = "seed"
	flagTraceLevel         = "trace-level"

	envPrefix = "TANDEMSIM"
)

// defaultSeed keeps runs reproducible when no seed is given.
const defaultSeed int64 = 42

// requiredParams must be supplied by a flag, the environment or the config file.
var requiredParams = []string{
	flagLength,
	flagSimulationTime,
	flagGenerationConstant,
	flagQueueConstant,
	flagLambdaOn,
	flagLambdaOff,
	flagStreams,
	flagDropped,
}

// registerModelFlags adds the tandem model parameters to c.
func registerModelFlags(c *cobra.Command) {
	f := c.Flags()
	f.IntP(flagLength, "l", 0, "Packet length")
	f.Float64P(flagSimulationTime, "t", 0, "Simulation time")
	f.Float64P(flagGenerationConstant, "g", 0, "Generation time = Packet length * Generation constant")
	f.Float64P(flagQueueConstant, "q", 0, "Handling time = Packet length * Queue constant")
	f.Float64P(flagLambdaOn, "o", 0, "Lambda parameter for ON state")
	f.Float64P(flagLambdaOff, "f", 0, "Lambda parameter for OFF state")
	f.IntP(flagStreams, "n", 0, "Number of streams")
	f.IntP(flagDropped, "d", 0, "Number of dropped streams after the first queue")
	f.Int64(flagSeed, defaultSeed, "Seed for the ON/OFF sojourn times")
}

// newParams layers c's flags over the environment and an optional file.
func newParams(c *cobra.Command, file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(c.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}
	return v, nil
}

// configFromParams builds a sim.Config, failing on the first missing
// required parameter. No range checks are made here.
func configFromParams(v *viper.Viper) (sim.Config, error) {
	var missing []string
	for _, key := range requiredParams {
		if !v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return sim.Config{}, fmt.Errorf("required parameters not set: %s", strings.Join(missing, ", "))
	}
	return sim.Config{
		Horizon:            v.GetFloat64(flagSimulationTime),
		PacketLength:       v.GetInt(flagLength),
		GenerationConstant: v.GetFloat64(flagGenerationConstant),
		ServiceConstant:    v.GetFloat64(flagQueueConstant),
		LambdaOn:           v.GetFloat64(flagLambdaOn),
		LambdaOff:          v.GetFloat64(flagLambdaOff),
		Streams:            v.GetInt(flagStreams),
		DroppedStreams:     v.GetInt(flagDropped),
		Seed:               v.GetInt64(flagSeed),
	}, nil
}
