package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// TrafficGenerator is an ON/OFF source. Sojourn times in each state are
// exponential; while ON it emits one packet per cadence into its target node.
// Packets for an ON interval are scheduled when that interval ends.
type TrafficGenerator struct {
	ID      int
	Target  NodeID
	Cadence float64
	Pass    bool // applied to every emitted packet

	on     bool
	onTime float64 // ON duration sampled at the start of the current ON interval
	source *RandomVariateSource
}

// NewTrafficGenerator creates a generator in the OFF state.
func NewTrafficGenerator(id int, target NodeID, cadence float64, pass bool, source *RandomVariateSource) *TrafficGenerator {
	logrus.Debugf("New packet stream %d created (target=%d, pass=%t)", id, target, pass)
	return &TrafficGenerator{
		ID:      id,
		Target:  target,
		Cadence: cadence,
		Pass:    pass,
		source:  source,
	}
}

// Start performs the first state switch at the current time, so the
// generator begins its first ON interval immediately.
func (g *TrafficGenerator) Start(sim *Simulator) {
	first := &SwitchStateEvent{
		BaseEvent: newBaseEvent(sim.Now(), "Switch generator state (1st)", FlagUnset),
		Generator: g.ID,
	}
	g.switchState(sim, first)
}

// On reports whether the generator is in its ON state.
func (g *TrafficGenerator) On() bool {
	return g.on
}

// PacketsPerInterval returns how many packets an ON interval of length
// onTime yields: whole cadence slots only.
func (g *TrafficGenerator) PacketsPerInterval(onTime float64) int {
	return int(math.Floor(onTime / g.Cadence))
}

func (g *TrafficGenerator) switchState(sim *Simulator, e *SwitchStateEvent) {
	var sojourn float64
	var label string
	if g.on {
		sojourn = g.source.DrawOff()
		label = fmt.Sprintf("Switch generator state to OFF for %.2f", sojourn)
		sim.Schedule(&GeneratePacketsEvent{
			BaseEvent: newBaseEvent(e.Timestamp(), "Execute packet generator", FlagUnset),
			Generator: g.ID,
			OnTime:    g.onTime,
		})
	} else {
		sojourn = g.source.DrawOn()
		label = fmt.Sprintf("Switch generator state to ON for %.2f", sojourn)
		g.onTime = sojourn
	}
	sim.Schedule(&SwitchStateEvent{
		BaseEvent: newBaseEvent(e.Timestamp()+sojourn, label, FlagUnset),
		Generator: g.ID,
	})
	g.on = !g.on
}

func (g *TrafficGenerator) generatePackets(sim *Simulator, e *GeneratePacketsEvent) {
	count := g.PacketsPerInterval(e.OnTime)
	logrus.Debugf("[t=%.4f] generator %d: %d packets for ON interval %.4f", e.Timestamp(), g.ID, count, e.OnTime)
	for i := 0; i < count; i++ {
		sim.Schedule(&EndGenerationEvent{
			BaseEvent: newBaseEvent(e.Timestamp()+float64(i)*g.Cadence, "Packet generation", FlagFalse),
			Generator: g.ID,
		})
	}
}

func (g *TrafficGenerator) endGeneration(sim *Simulator, e *EndGenerationEvent) {
	sim.Schedule(&SendEvent{
		BaseEvent: newBaseEvent(e.Timestamp()+g.Cadence, e.Label(), FlagTrue),
		Generator: g.ID,
	})
}

func (g *TrafficGenerator) send(sim *Simulator, e *SendEvent) {
	p := &Packet{
		ID:           sim.newPacketID(),
		Stream:       g.ID,
		CreationTime: e.Timestamp(),
		Pass:         g.Pass,
	}
	sim.Nodes[g.Target].Receive(sim, p)
}
