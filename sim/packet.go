package sim

import "fmt"

// Packet is a unit of work emitted by a TrafficGenerator.
// Node timestamps are filled in as it moves through a QueueingNode; once a
// node logs it as completed the record is a value and never changes.
type Packet struct {
	ID               uint64  // unique per run, kept across nodes
	Stream           int     // ID of the emitting generator
	CreationTime     float64 // time the generator handed it to its node
	ArrivalTime      float64 // time the current node received it
	ServiceStartTime float64 // time the current node started serving it
	DepartureTime    float64 // time the current node finished serving it
	Pass             bool    // true = forwarded downstream after completion
}

// WaitingTime is the time spent in the node's waiting list.
func (p Packet) WaitingTime() float64 {
	return p.ServiceStartTime - p.ArrivalTime
}

// Delay is the total sojourn at the node (waiting plus service).
func (p Packet) Delay() float64 {
	return p.DepartureTime - p.ArrivalTime
}

// forwardCopy returns the packet as it enters the next node: identity and
// creation time are kept, node timestamps are cleared.
func (p Packet) forwardCopy() *Packet {
	return &Packet{
		ID:           p.ID,
		Stream:       p.Stream,
		CreationTime: p.CreationTime,
		Pass:         p.Pass,
	}
}

func (p Packet) String() string {
	return fmt.Sprintf("packet#%d(stream=%d, arr=%.2f, start=%.2f, dep=%.2f, pass=%t)",
		p.ID, p.Stream, p.ArrivalTime, p.ServiceStartTime, p.DepartureTime, p.Pass)
}
