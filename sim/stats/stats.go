// Package stats turns the raw collections a tandem run leaves on each
// QueueingNode into the averages reported to the user.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tandem-sim/tandem-sim/sim"
)

// NodeSummary holds the per-node figures of a finished run.
type NodeSummary struct {
	AvgQueueLength float64 // time-averaged waiting-list length
	AvgWaitingTime float64 // mean of service start - arrival
	AvgDelay       float64 // mean of departure - arrival (waiting + service)
	DelayP95       float64 // 95th percentile of the per-packet delay
	AvgLoad        float64 // fraction of the window the server was busy
	PacketsPassed  int     // completed packets
}

// Summarize computes every NodeSummary field for one node. window is the
// observation length used for the load, normally the simulation horizon.
func Summarize(node *sim.QueueingNode, window float64) NodeSummary {
	records := node.Completed()
	return NodeSummary{
		AvgQueueLength: TimeAveragedQueueLength(node.QueueLengths(), window),
		AvgWaitingTime: MeanWaitingTime(records),
		AvgDelay:       MeanDelay(records),
		DelayP95:       DelayQuantile(records, 0.95),
		AvgLoad:        ServerLoad(records, window),
		PacketsPassed:  len(records),
	}
}

// TimeAveragedQueueLength treats the samples as a step function: each length
// holds until the next sample, and the last one until end (when end lies
// beyond it). Returns 0 when the covered span is empty.
func TimeAveragedQueueLength(samples []sim.QueueSample, end float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	lengths := make([]float64, len(samples))
	durations := make([]float64, len(samples))
	for i, s := range samples {
		lengths[i] = float64(s.Length)
		next := end
		if i+1 < len(samples) {
			next = samples[i+1].Time
		}
		if next > s.Time {
			durations[i] = next - s.Time
		}
	}
	if floats.Sum(durations) == 0 {
		return 0
	}
	return stat.Mean(lengths, durations)
}

// MeanWaitingTime is the average time packets spent before service.
func MeanWaitingTime(records []sim.Packet) float64 {
	if len(records) == 0 {
		return 0
	}
	waits := make([]float64, len(records))
	for i, p := range records {
		waits[i] = p.WaitingTime()
	}
	return stat.Mean(waits, nil)
}

// MeanDelay is the average sojourn (waiting plus service) per packet.
func MeanDelay(records []sim.Packet) float64 {
	if len(records) == 0 {
		return 0
	}
	return stat.Mean(delays(records), nil)
}

// DelayQuantile returns the empirical p-quantile of the per-packet delay.
func DelayQuantile(records []sim.Packet, p float64) float64 {
	if len(records) == 0 {
		return 0
	}
	d := delays(records)
	sort.Float64s(d)
	return stat.Quantile(p, stat.Empirical, d, nil)
}

// ServerLoad is the busy time of the server divided by window.
func ServerLoad(records []sim.Packet, window float64) float64 {
	if window <= 0 || len(records) == 0 {
		return 0
	}
	busy := make([]float64, len(records))
	for i, p := range records {
		busy[i] = p.DepartureTime - p.ServiceStartTime
	}
	return floats.Sum(busy) / window
}

func delays(records []sim.Packet) []float64 {
	d := make([]float64, len(records))
	for i, p := range records {
		d[i] = p.Delay()
	}
	return d
}
