package scheduler

import "container/heap"

// eventHeap implements container/heap.Interface for Event, sorted by
// DueAt (earliest first).
type eventHeap []Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].DueAt.Before(h[j].DueAt) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func heapPush(h *eventHeap, e Event) {
	heap.Push(h, e)
}

func heapPop(h *eventHeap) Event {
	return heap.Pop(h).(Event)
}

// heapRemoveById removes the event for the given record id. Returns
// false when no such event exists, which makes cancellation idempotent.
func heapRemoveById(h *eventHeap, recordId string) bool {
	for i, e := range *h {
		if e.RecordId == recordId {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
