package routing

import "poi-route-service/internal/graph"

type item struct {
	dist float64
	rank int32
	node graph.Index
}

// pq is a binary min-heap ordered by (dist, rank). Stale entries are left in
// place and skipped on pop.
type pq []item

func (q pq) Len() int { return len(q) }

func (q pq) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].rank < q[j].rank
}

func (q pq) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pq) Push(x any) { *q = append(*q, x.(item)) }

func (q *pq) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
