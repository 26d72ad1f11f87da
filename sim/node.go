package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tandem-sim/tandem-sim/sim/trace"
)

// NodeID indexes Simulator.Nodes.
type NodeID int

// NoDownstream marks a node whose completed packets leave the network.
const NoDownstream NodeID = -1

// QueueSample is one point of a node's queue-length time series.
type QueueSample struct {
	Time   float64 `json:"time"`
	Length int     `json:"length"`
}

// WaitQueue holds the packets waiting for a busy server, in arrival order.
// Served packets are released by advancing head; the backing slice is
// compacted once more than half of it is spent.
type WaitQueue struct {
	items []*Packet
	head  int
}

// Enqueue appends p behind every packet already waiting.
func (wq *WaitQueue) Enqueue(p *Packet) {
	wq.items = append(wq.items, p)
}

// Dequeue removes the oldest waiting packet, or returns nil when none waits.
func (wq *WaitQueue) Dequeue() *Packet {
	if wq.head == len(wq.items) {
		return nil
	}
	p := wq.items[wq.head]
	wq.items[wq.head] = nil
	wq.head++
	if wq.head == len(wq.items) {
		wq.items, wq.head = wq.items[:0], 0
	} else if wq.head > len(wq.items)/2 {
		n := copy(wq.items, wq.items[wq.head:])
		wq.items, wq.head = wq.items[:n], 0
	}
	return p
}

// Len returns the number of waiting packets.
func (wq *WaitQueue) Len() int {
	return len(wq.items) - wq.head
}

func (wq *WaitQueue) String() string {
	parts := make([]string, 0, wq.Len())
	for _, p := range wq.items[wq.head:] {
		parts = append(parts, fmt.Sprint(p))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// QueueingNode is a single-server FIFO station with deterministic service.
// Completed packets whose Pass flag is set are forwarded to Downstream.
type QueueingNode struct {
	ID           NodeID
	HandlingTime float64
	Downstream   NodeID

	busy      bool
	inService *Packet
	waiting   WaitQueue
	samples   []QueueSample
	completed []Packet
}

// NewQueueingNode creates an idle node.
func NewQueueingNode(id NodeID, handlingTime float64, downstream NodeID) *QueueingNode {
	return &QueueingNode{
		ID:           id,
		HandlingTime: handlingTime,
		Downstream:   downstream,
		samples:      make([]QueueSample, 0),
		completed:    make([]Packet, 0),
	}
}

// Receive accepts a packet at the current time. An idle server starts
// serving it immediately; otherwise it joins the waiting list.
func (n *QueueingNode) Receive(sim *Simulator, p *Packet) {
	now := sim.Now()
	p.ArrivalTime = now
	if n.busy {
		n.waiting.Enqueue(p)
		logrus.Debugf("[t=%.4f] node %d: packet %d queued, %d waiting", now, n.ID, p.ID, n.waiting.Len())
	} else {
		n.startService(sim, p)
	}
	n.sample(now)
}

// startService puts p on the server and schedules its completion.
func (n *QueueingNode) startService(sim *Simulator, p *Packet) {
	now := sim.Now()
	p.ServiceStartTime = now
	n.busy = true
	n.inService = p
	sim.Schedule(&CompletionEvent{
		BaseEvent: newBaseEvent(now+n.HandlingTime, "Packet handled", FlagUnset),
		Node:      n.ID,
	})
}

// complete finishes the packet in service, forwards or absorbs it, and
// starts the next waiting packet if any.
func (n *QueueingNode) complete(sim *Simulator, _ *CompletionEvent) {
	now := sim.Now()
	p := n.inService
	if p == nil {
		panic("QueueingNode.complete: no packet in service")
	}
	p.DepartureTime = now
	n.completed = append(n.completed, *p)
	n.inService = nil
	n.busy = false

	forward := n.Downstream != NoDownstream && p.Pass
	if sim.Trace != nil {
		sim.Trace.RecordForwarding(trace.ForwardingRecord{
			PacketID:   p.ID,
			Stream:     p.Stream,
			Clock:      now,
			Node:       int(n.ID),
			Forwarded:  forward,
			Downstream: int(n.Downstream),
		})
	}
	if forward {
		sim.Nodes[n.Downstream].Receive(sim, p.forwardCopy())
	}

	if next := n.waiting.Dequeue(); next != nil {
		n.startService(sim, next)
	}
	n.sample(now)
}

func (n *QueueingNode) sample(now float64) {
	n.samples = append(n.samples, QueueSample{Time: now, Length: n.waiting.Len()})
}

// Busy reports whether the server is occupied.
func (n *QueueingNode) Busy() bool {
	return n.busy
}

// Waiting returns the number of packets in the waiting list.
func (n *QueueingNode) Waiting() int {
	return n.waiting.Len()
}

// WaitingList renders the packets still waiting, oldest first.
func (n *QueueingNode) WaitingList() string {
	return n.waiting.String()
}

// QueueLengths returns the queue-length time series. The returned slice is
// the node's storage and must not be modified.
func (n *QueueingNode) QueueLengths() []QueueSample {
	return n.samples
}

// Completed returns the completed packet records in completion order.
// The returned slice is the node's storage and must not be modified.
func (n *QueueingNode) Completed() []Packet {
	return n.completed
}
