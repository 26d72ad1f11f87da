package sim

import "github.com/sirupsen/logrus"

// Indices of the two stages in a tandem simulator.
const (
	NodeOne NodeID = 0
	NodeTwo NodeID = 1
)

// NewTandemSimulator validates cfg and builds the two-stage network:
//   - Streams-DroppedStreams passing generators feed node one and continue
//     to node two on completion.
//   - each dropped stream becomes a non-passing generator into node one
//     (absorbed there) plus a passing generator injecting into node two.
//
// Every generator is started at time zero. On a validation error no
// simulation state is built.
func NewTandemSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := NewSimulator(cfg.Horizon, NewSimulationKey(cfg.Seed))
	h := cfg.HandlingTime()
	s.AddNode(h, NodeTwo)
	s.AddNode(h, NoDownstream)

	cadence := cfg.Cadence()
	for i := 0; i < cfg.Streams-cfg.DroppedStreams; i++ {
		s.AddGenerator(NodeOne, cadence, cfg.LambdaOn, cfg.LambdaOff, true)
	}
	for i := 0; i < cfg.DroppedStreams; i++ {
		s.AddGenerator(NodeOne, cadence, cfg.LambdaOn, cfg.LambdaOff, false)
		s.AddGenerator(NodeTwo, cadence, cfg.LambdaOn, cfg.LambdaOff, true)
	}

	logrus.Infof("Tandem network: handling=%.4f cadence=%.4f generators=%d horizon=%.2f seed=%d",
		h, cadence, len(s.Generators), cfg.Horizon, s.Ctx.RNG.Key())

	for _, g := range s.Generators {
		g.Start(s)
	}
	return s, nil
}
