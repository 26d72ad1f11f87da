// Package sim provides the discrete-event engine for a two-stage tandem
// queueing network fed by ON/OFF traffic sources.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the event kinds and the components they dispatch to
//   - simulator.go: the event loop, fixed-horizon termination and component registry
//   - generator.go: the ON/OFF source and its packet emission schedule
//   - node.go: the single-server FIFO node and its forwarding rule
//
// # Architecture
//
// A Simulator owns a time-ordered EventQueue, a fixed slice of QueueingNodes
// and the TrafficGenerators feeding them. Events refer to components by index,
// never by pointer. network.go wires the tandem topology from a Config:
// passing streams enter node one and continue to node two, dropped streams
// leave after node one and are replaced by fresh streams entering node two.
//
// Sub-packages:
//   - sim/stats/: queue length, waiting time, delay and load summaries
//   - sim/trace/: forwarding decision recording
//
// # Randomness
//
// Each generator draws its sojourn times from its own stream of a
// PartitionedRNG, so adding a generator never perturbs the others.
package sim
