// Package trace provides forwarding-decision recording for tandem runs.
// It has no dependencies on sim/ and stores pure data types.
package trace

// ForwardingRecord captures what a node did with a packet it finished serving.
type ForwardingRecord struct {
	PacketID   uint64
	Stream     int
	Clock      float64
	Node       int
	Forwarded  bool
	Downstream int // -1 when the node has no downstream
}
