package movement

import "container/heap"

// searchNode is one (position, bonus) state on the frontier
type searchNode struct {
	pos      Position
	bonus    int
	g        int
	priority int
	seq      int
	parent   *searchNode
	index    int
}

// key returns the state identity used for dominance and closed-set bookkeeping
func (n *searchNode) key() stateKey {
	return stateKey{pos: n.pos, bonus: n.bonus}
}

// path rebuilds the positions from the start (exclusive) to n (inclusive)
func (n *searchNode) path() []Position {
	var path []Position
	for node := n; node.parent != nil; node = node.parent {
		path = append(path, node.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// nodeQueue orders nodes by priority, then by insertion sequence
type nodeQueue []*searchNode

func (q nodeQueue) Len() int { return len(q) }
func (q nodeQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}
func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*q = old[:n-1]
	return node
}

// frontier is a min-heap of search nodes with FIFO tie-breaking
type frontier struct {
	queue nodeQueue
	seq   int
}

func (f *frontier) Len() int { return f.queue.Len() }

func (f *frontier) push(n *searchNode) {
	n.seq = f.seq
	f.seq++
	heap.Push(&f.queue, n)
}

func (f *frontier) pop() *searchNode {
	return heap.Pop(&f.queue).(*searchNode)
}
