package gridpath

import "container/heap"

type frontierItem struct {
	Cell         int
	FCost        float64
	Order        uint64 // insertion sequence, breaks f-cost ties
	IndexInQueue int
}

// frontierQueue is a min-heap on (FCost, Order).
type frontierQueue []*frontierItem

func (queue frontierQueue) Len() int { return len(queue) }
func (queue frontierQueue) Less(i, j int) bool {
	if queue[i].FCost != queue[j].FCost {
		return queue[i].FCost < queue[j].FCost
	}
	return queue[i].Order < queue[j].Order
}
func (queue frontierQueue) Swap(i, j int) {
	queue[i], queue[j] = queue[j], queue[i]
	queue[i].IndexInQueue = i
	queue[j].IndexInQueue = j
}

func (queue *frontierQueue) Push(x any) {
	item := x.(*frontierItem)
	item.IndexInQueue = len(*queue)
	*queue = append(*queue, item)
}

func (queue *frontierQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	oldQueue[n-1] = nil
	item.IndexInQueue = -1
	*queue = oldQueue[:n-1]
	return item
}

// frontier is the open set: a heap plus a per-cell handle for membership and
// decrease-key.
type frontier struct {
	queue   frontierQueue
	members []*frontierItem
	next    uint64
}

func newFrontier(size int) *frontier {
	return &frontier{members: make([]*frontierItem, size)}
}

func (f *frontier) Len() int { return f.queue.Len() }

func (f *frontier) Contains(cell int) bool { return f.members[cell] != nil }

// Push inserts cell, or lowers its priority if it is already queued. The
// original insertion order is kept on decrease.
func (f *frontier) Push(cell int, fCost float64) {
	if item := f.members[cell]; item != nil {
		if fCost < item.FCost {
			item.FCost = fCost
			heap.Fix(&f.queue, item.IndexInQueue)
		}
		return
	}
	item := &frontierItem{Cell: cell, FCost: fCost, Order: f.next}
	f.next++
	heap.Push(&f.queue, item)
	f.members[cell] = item
}

// PopMin removes and returns the cell with the lowest f-cost.
func (f *frontier) PopMin() int {
	item := heap.Pop(&f.queue).(*frontierItem)
	f.members[item.Cell] = nil
	return item.Cell
}

// Cells lists queued cells in ascending cell index.
func (f *frontier) Cells() []int {
	cells := make([]int, 0, f.queue.Len())
	for cell, item := range f.members {
		if item != nil {
			cells = append(cells, cell)
		}
	}
	return cells
}
