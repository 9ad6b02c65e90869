package pathfind

// queue is a FIFO of cell indices. Dequeue advances a head index instead of
// shifting, and the backing array is reset once drained.
type queue struct {
	items []int
	head  int
}

func (q *queue) push(v int) { q.items = append(q.items, v) }

func (q *queue) pop() int {
	v := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return v
}

func (q *queue) empty() bool { return q.head == len(q.items) }
