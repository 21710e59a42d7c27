package collision

import "time"

// Statistics describes the work done by one query. Counters are only filled in when the request
// enables statistics.
type Statistics struct {
	NumBVTests   int
	NumLeafTests int
	QueryTime    time.Duration
}

// collisionNode is what collisionRecurse needs from a pair of hierarchies. Node indices of the
// two sides are independent.
type collisionNode interface {
	isFirstNodeLeaf(b int) bool
	isSecondNodeLeaf(b int) bool
	firstChildren(b int) (int, int)
	secondChildren(b int) (int, int)
	// firstOverSecond reports whether the first node should be subdivided before the second.
	firstOverSecond(b1, b2 int) bool
	// bvTesting reports whether the bounds of the two nodes are disjoint.
	bvTesting(b1, b2 int) bool
	leafTesting(b1, b2 int)
	canStop() bool
}

// collisionRecurse walks the bounding volume test tree rooted at (b1, b2), pruning disjoint pairs
// of bounds and handing pairs of leaves to the narrow phase.
func collisionRecurse(node collisionNode, b1, b2 int) {
	l1 := node.isFirstNodeLeaf(b1)
	l2 := node.isSecondNodeLeaf(b2)

	if l1 && l2 {
		if node.bvTesting(b1, b2) {
			return
		}
		node.leafTesting(b1, b2)
		return
	}

	if node.bvTesting(b1, b2) {
		return
	}

	if node.firstOverSecond(b1, b2) {
		c1, c2 := node.firstChildren(b1)
		collisionRecurse(node, c1, b2)
		if node.canStop() {
			return
		}
		collisionRecurse(node, c2, b2)
	} else {
		c1, c2 := node.secondChildren(b2)
		collisionRecurse(node, b1, c1)
		if node.canStop() {
			return
		}
		collisionRecurse(node, b1, c2)
	}
}

// distanceNode is what distanceRecurse needs from a pair of hierarchies.
type distanceNode interface {
	isFirstNodeLeaf(b int) bool
	isSecondNodeLeaf(b int) bool
	firstChildren(b int) (int, int)
	secondChildren(b int) (int, int)
	firstOverSecond(b1, b2 int) bool
	// bvTesting returns a lower bound on the distance between the contents of the two nodes.
	bvTesting(b1, b2 int) float64
	leafTesting(b1, b2 int)
	// canStop reports whether a pair whose distance is at least bound cannot improve the result.
	canStop(bound float64) bool
}

// distanceRecurse walks the bounding volume test tree rooted at (b1, b2). Of the two child pairs,
// the one with the smaller lower bound is visited first so the best distance tightens early.
func distanceRecurse(node distanceNode, b1, b2 int) {
	l1 := node.isFirstNodeLeaf(b1)
	l2 := node.isSecondNodeLeaf(b2)

	if l1 && l2 {
		node.leafTesting(b1, b2)
		return
	}

	var a1, a2, c1, c2 int
	if node.firstOverSecond(b1, b2) {
		a1, c1 = node.firstChildren(b1)
		a2, c2 = b2, b2
	} else {
		a1, c1 = b1, b1
		a2, c2 = node.secondChildren(b2)
	}

	d1 := node.bvTesting(a1, a2)
	d2 := node.bvTesting(c1, c2)

	if d2 < d1 {
		if !node.canStop(d2) {
			distanceRecurse(node, c1, c2)
		}
		if !node.canStop(d1) {
			distanceRecurse(node, a1, a2)
		}
	} else {
		if !node.canStop(d1) {
			distanceRecurse(node, a1, a2)
		}
		if !node.canStop(d2) {
			distanceRecurse(node, c1, c2)
		}
	}
}
