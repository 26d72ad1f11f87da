package sim

import "fmt"

// Event defines the interface for all simulation events.
// Each event carries its scheduled time and an Execute method that
// advances simulation state when the Simulator dispatches it.
type Event interface {
	Timestamp() float64
	Seq() uint64
	Label() string
	Flag() Flag
	Execute(*Simulator)
	base() *BaseEvent
}

// Flag is an opaque marker carried by every event. It has no effect on
// dispatch; it is preserved so traces show what the emitter attached.
type Flag int8

const (
	FlagUnset Flag = iota
	FlagFalse
	FlagTrue
)

func (f Flag) String() string {
	switch f {
	case FlagFalse:
		return "false"
	case FlagTrue:
		return "true"
	default:
		return "unset"
	}
}

// BaseEvent provides the fields shared by every event kind.
// seq is assigned by Simulator.Schedule and breaks ties between equal times.
type BaseEvent struct {
	time  float64
	seq   uint64
	label string
	flag  Flag
}

func newBaseEvent(time float64, label string, flag Flag) BaseEvent {
	return BaseEvent{time: time, label: label, flag: flag}
}

func (e *BaseEvent) Timestamp() float64 { return e.time }
func (e *BaseEvent) Seq() uint64        { return e.seq }
func (e *BaseEvent) Label() string      { return e.label }
func (e *BaseEvent) Flag() Flag         { return e.flag }
func (e *BaseEvent) base() *BaseEvent   { return e }

// SwitchStateEvent toggles a generator between ON and OFF.
type SwitchStateEvent struct {
	BaseEvent
	Generator int
}

// Execute runs the generator's switch-state handler.
func (e *SwitchStateEvent) Execute(sim *Simulator) {
	sim.Generators[e.Generator].switchState(sim, e)
}

// GeneratePacketsEvent expands an ended ON interval into per-slot events.
type GeneratePacketsEvent struct {
	BaseEvent
	Generator int
	OnTime    float64 // ON duration sampled at the start of the interval
}

// Execute runs the generator's generate-packets handler.
func (e *GeneratePacketsEvent) Execute(sim *Simulator) {
	sim.Generators[e.Generator].generatePackets(sim, e)
}

// EndGenerationEvent marks a nominal packet slot; delivery follows one
// cadence later.
type EndGenerationEvent struct {
	BaseEvent
	Generator int
}

// Execute runs the generator's end-generation handler.
func (e *EndGenerationEvent) Execute(sim *Simulator) {
	sim.Generators[e.Generator].endGeneration(sim, e)
}

// SendEvent builds a packet and hands it to the generator's target node.
type SendEvent struct {
	BaseEvent
	Generator int
}

// Execute runs the generator's send handler.
func (e *SendEvent) Execute(sim *Simulator) {
	sim.Generators[e.Generator].send(sim, e)
}

// CompletionEvent finishes service of the packet in a node's server.
type CompletionEvent struct {
	BaseEvent
	Node NodeID
}

// Execute runs the node's completion handler.
func (e *CompletionEvent) Execute(sim *Simulator) {
	sim.Nodes[e.Node].complete(sim, e)
}

// describe renders an event for trace-level logging.
func describe(ev Event) string {
	return fmt.Sprintf("%T{t=%.4f seq=%d label=%q flag=%s}", ev, ev.Timestamp(), ev.Seq(), ev.Label(), ev.Flag())
}
