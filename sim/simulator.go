// sim/simulator.go
package sim

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tandem-sim/tandem-sim/sim/trace"
)

// SimContext carries the state every component reads during a run: the
// logical clock and the RNG partitions. Only the Simulator advances the clock.
type SimContext struct {
	clock float64
	RNG   *PartitionedRNG
}

// NewSimContext creates a context at time zero seeded from key.
func NewSimContext(key SimulationKey) *SimContext {
	return &SimContext{RNG: NewPartitionedRNG(key)}
}

// Now returns the current logical time.
func (c *SimContext) Now() float64 {
	return c.clock
}

// Simulator is the core object that holds simulation time, the pending
// events and the tandem components, and drives the event loop.
type Simulator struct {
	Ctx     *SimContext
	Horizon float64
	// EventQueue has all pending events ordered by (time, insertion order)
	EventQueue EventQueue
	// Nodes is fixed after construction; NodeID values index into it
	Nodes      []*QueueingNode
	Generators []*TrafficGenerator
	// Trace is nil unless decision tracing was requested
	Trace *trace.SimulationTrace

	nextSeq      uint64
	nextPacketID uint64
	steps        int
}

// NewSimulator creates an empty simulator with the given horizon.
func NewSimulator(horizon float64, key SimulationKey) *Simulator {
	return &Simulator{
		Ctx:        NewSimContext(key),
		Horizon:    horizon,
		EventQueue: make(EventQueue, 0),
	}
}

// Now returns the current logical time.
func (sim *Simulator) Now() float64 {
	return sim.Ctx.Now()
}

// Schedule pushes an event into the EventQueue. The event may lie before
// the current clock at insertion; callers guarantee it is not earlier than
// the clock by the time it is popped.
func (sim *Simulator) Schedule(ev Event) {
	sim.nextSeq++
	ev.base().seq = sim.nextSeq
	heap.Push(&sim.EventQueue, ev)
}

// Step dispatches the earliest pending event. It returns false, discarding
// every pending event, once that event lies beyond the horizon; it also
// returns false when nothing is pending.
func (sim *Simulator) Step() bool {
	next := sim.EventQueue.Peek()
	if next == nil {
		return false
	}
	if next.Timestamp() > sim.Horizon {
		logrus.Debugf("[t=%.4f] horizon %.4f reached, discarding %d pending events",
			sim.Now(), sim.Horizon, sim.EventQueue.Len())
		sim.EventQueue = sim.EventQueue[:0]
		return false
	}
	ev := sim.EventQueue.PopNext()
	if ev.Timestamp() < sim.Ctx.clock {
		panic(fmt.Sprintf("Clock went backwards: %f < %f", ev.Timestamp(), sim.Ctx.clock))
	}
	sim.Ctx.clock = ev.Timestamp()
	sim.steps++
	logrus.Tracef("[t=%.4f] Executing %s", sim.Ctx.clock, describe(ev))
	ev.Execute(sim)
	return true
}

// EnableTrace starts collecting forwarding decisions when cfg asks for them.
func (sim *Simulator) EnableTrace(cfg trace.TraceConfig) {
	if cfg.Enabled() {
		sim.Trace = trace.NewSimulationTrace(cfg)
	}
}

// Run calls Step until the horizon is reached.
func (sim *Simulator) Run() {
	_ = sim.RunContext(context.Background())
}

// RunContext is Run with cancellation: ctx is checked before every event
// and its error is returned if it ends the run early. Pending events are
// kept, so a stopped run may be resumed.
func (sim *Simulator) RunContext(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			logrus.Infof("[t=%.4f] Simulation stopped after %d events: %v", sim.Now(), sim.steps, err)
			return err
		}
		if !sim.Step() {
			break
		}
	}
	logrus.Infof("[t=%.4f] Simulation ended after %d events", sim.Now(), sim.steps)
	return nil
}

// Steps returns the number of events dispatched so far.
func (sim *Simulator) Steps() int {
	return sim.steps
}

// AddNode appends a node to the fixed node array and returns its ID.
func (sim *Simulator) AddNode(handlingTime float64, downstream NodeID) NodeID {
	id := NodeID(len(sim.Nodes))
	sim.Nodes = append(sim.Nodes, NewQueueingNode(id, handlingTime, downstream))
	return id
}

// AddGenerator appends a traffic generator feeding target and returns its ID.
// The generator does not emit anything until Start is called.
func (sim *Simulator) AddGenerator(target NodeID, cadence, lambdaOn, lambdaOff float64, pass bool) int {
	if int(target) < 0 || int(target) >= len(sim.Nodes) {
		panic(fmt.Sprintf("AddGenerator: unknown target node %d", target))
	}
	id := len(sim.Generators)
	source := NewRandomVariateSource(lambdaOn, lambdaOff, sim.Ctx.RNG.ForSubsystem(SubsystemGenerator(id)))
	sim.Generators = append(sim.Generators, NewTrafficGenerator(id, target, cadence, pass, source))
	return id
}

// newPacketID returns the next packet identifier for this run.
func (sim *Simulator) newPacketID() uint64 {
	sim.nextPacketID++
	return sim.nextPacketID
}
