package sim

import (
	"errors"
	"fmt"
)

// ErrTooManyDroppedStreams is returned by Config.Validate when the dropped
// streams would leave no stream passing through both nodes.
var ErrTooManyDroppedStreams = errors.New("the number of dropped streams has to be lower than the number of streams going into the first queue")

// Config groups the parameters of a single tandem run.
// It is read once at construction and never mutated afterwards.
type Config struct {
	Horizon            float64 `json:"simulation_time" yaml:"simulation_time"`         // simulation time bound
	PacketLength       int     `json:"packet_length" yaml:"packet_length"`             // packet length (cadence and handling time scale with it)
	GenerationConstant float64 `json:"generation_constant" yaml:"generation_constant"` // cadence = PacketLength * GenerationConstant
	ServiceConstant    float64 `json:"queue_constant" yaml:"queue_constant"`           // handling time = PacketLength * ServiceConstant
	LambdaOn           float64 `json:"lambda_on" yaml:"lambda_on"`                     // rate of the exponential ON sojourn
	LambdaOff          float64 `json:"lambda_off" yaml:"lambda_off"`                   // rate of the exponential OFF sojourn
	Streams            int     `json:"streams_number" yaml:"streams_number"`           // total stream count
	DroppedStreams     int     `json:"dropped_streams" yaml:"dropped_streams"`         // streams diverted around the first node
	Seed               int64   `json:"seed" yaml:"seed"`                               // master seed for every generator stream
}

// Validate checks the one constraint enforced before a run.
// Non-positive rates, lengths or constants are the caller's responsibility.
func (c Config) Validate() error {
	if c.DroppedStreams >= c.Streams {
		return fmt.Errorf("streams=%d, dropped=%d: %w", c.Streams, c.DroppedStreams, ErrTooManyDroppedStreams)
	}
	return nil
}

// Cadence is the fixed interval between packets emitted during an ON period.
func (c Config) Cadence() float64 {
	return float64(c.PacketLength) * c.GenerationConstant
}

// HandlingTime is the deterministic per-packet service time at every node.
func (c Config) HandlingTime() float64 {
	return float64(c.PacketLength) * c.ServiceConstant
}
