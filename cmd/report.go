package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tandem-sim/tandem-sim/sim"
	"github.com/tandem-sim/tandem-sim/sim/stats"
	"github.com/tandem-sim/tandem-sim/sim/trace"
)

// Report is the JSON document printed after a run.
type Report struct {
	Scenario string `json:"scenario,omitempty"`

	AvgQueueLengthQ1 float64    `json:"avg_queue_length_Q1"`
	AvgWaitingTimeQ1 float64    `json:"avg_queue_waiting_time_Q1"`
	AvgDelayQ1       float64    `json:"avg_delay_Q1"`
	DelayP95Q1       float64    `json:"delay_p95_Q1"`
	AvgLoadQ1        float64    `json:"avg_load_Q1"`
	PacketsPassedQ1  int        `json:"packets_passed_Q1"`
	AvgQueueLengthQ2 float64    `json:"avg_queue_length_Q2"`
	AvgWaitingTimeQ2 float64    `json:"avg_queue_waiting_time_Q2"`
	AvgDelayQ2       float64    `json:"avg_delay_Q2"`
	DelayP95Q2       float64    `json:"delay_p95_Q2"`
	AvgLoadQ2        float64    `json:"avg_load_Q2"`
	PacketsPassedQ2  int        `json:"packets_passed_Q2"`
	SimulationParams sim.Config `json:"simulation_params"`
}

// runSimulation builds, runs and summarizes one tandem simulation.
// The trace summary is nil unless tc enables tracing. A run cut short by
// ctx returns ctx's error and no report.
func runSimulation(ctx context.Context, cfg sim.Config, tc trace.TraceConfig) (Report, *trace.TraceSummary, error) {
	s, err := sim.NewTandemSimulator(cfg)
	if err != nil {
		return Report{}, nil, err
	}
	s.EnableTrace(tc)
	if err := s.RunContext(ctx); err != nil {
		return Report{}, nil, fmt.Errorf("simulation interrupted at t=%.4f: %w", s.Now(), err)
	}

	one := s.Nodes[sim.NodeOne]
	two := s.Nodes[sim.NodeTwo]
	logNodeData("queue one", one)
	logNodeData("queue two", two)

	q1 := stats.Summarize(one, cfg.Horizon)
	q2 := stats.Summarize(two, cfg.Horizon)
	report := Report{
		AvgQueueLengthQ1: q1.AvgQueueLength,
		AvgWaitingTimeQ1: q1.AvgWaitingTime,
		AvgDelayQ1:       q1.AvgDelay,
		DelayP95Q1:       q1.DelayP95,
		AvgLoadQ1:        q1.AvgLoad,
		PacketsPassedQ1:  q1.PacketsPassed,
		AvgQueueLengthQ2: q2.AvgQueueLength,
		AvgWaitingTimeQ2: q2.AvgWaitingTime,
		AvgDelayQ2:       q2.AvgDelay,
		DelayP95Q2:       q2.DelayP95,
		AvgLoadQ2:        q2.AvgLoad,
		PacketsPassedQ2:  q2.PacketsPassed,
		SimulationParams: cfg,
	}

	var summary *trace.TraceSummary
	if s.Trace != nil {
		summary = trace.Summarize(s.Trace)
	}
	return report, summary, nil
}

// logNodeData dumps a clipped view of a node's raw collections at debug level.
func logNodeData(name string, n *sim.QueueingNode) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	logrus.Debugf("%s data:", name)
	logrus.Debugf("%s --clip--", clip(fmt.Sprint(n.QueueLengths()), 100))
	logrus.Debugf("%s --clip--", clip(fmt.Sprint(n.Completed()), 100))
	logrus.Debugf("%s waiting at horizon: %s", name, clip(n.WaitingList(), 100))
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// writeReport encodes r as a single JSON line.
func writeReport(w io.Writer, r Report) error {
	return json.NewEncoder(w).Encode(r)
}
