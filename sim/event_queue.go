package sim

import "container/heap"

// EventQueue implements heap.Interface with deterministic ordering.
// Ordering: timestamp → insertion sequence.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []Event

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].Timestamp() != eq[j].Timestamp() {
		return eq[i].Timestamp() < eq[j].Timestamp()
	}
	return eq[i].Seq() < eq[j].Seq()
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*eq = old[0 : n-1]
	return item
}

// PopNext removes and returns the next event, or nil when empty.
func (eq *EventQueue) PopNext() Event {
	if eq.Len() == 0 {
		return nil
	}
	return heap.Pop(eq).(Event)
}

// Peek returns the next event without removing it, or nil when empty.
func (eq EventQueue) Peek() Event {
	if len(eq) == 0 {
		return nil
	}
	return eq[0]
}
