package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions   int
	ForwardedCount   int
	AbsorbedCount    int
	UniqueStreams    int
	NodeDistribution map[int]int // node ID → number of completions decided there
	AbsorbedByStream map[int]int // stream ID → packets that left the network at a node
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		NodeDistribution: make(map[int]int),
		AbsorbedByStream: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	streams := make(map[int]struct{})
	summary.TotalDecisions = len(st.Forwardings)
	for _, r := range st.Forwardings {
		summary.NodeDistribution[r.Node]++
		streams[r.Stream] = struct{}{}
		if r.Forwarded {
			summary.ForwardedCount++
		} else {
			summary.AbsorbedCount++
			summary.AbsorbedByStream[r.Stream]++
		}
	}
	summary.UniqueStreams = len(streams)

	return summary
}
