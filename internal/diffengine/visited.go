package diffengine

import "github.com/tayzer/compareengine/internal/modelregistry"

type nodePair struct {
	a *modelregistry.Node
	b *modelregistry.Node
}

// visitedChain tracks node-identity pairs seen on the current descent path
// only, not globally (spec §9: "identity-based visited sets per descent
// chain... so that diamond references still compare on each path"). Push
// before recursing into a pair, pop on return.
type visitedChain struct {
	seen map[nodePair]bool
}

func newVisitedChain() *visitedChain {
	return &visitedChain{seen: map[nodePair]bool{}}
}

func (v *visitedChain) has(a, b *modelregistry.Node) bool {
	return v.seen[nodePair{a, b}]
}

func (v *visitedChain) push(a, b *modelregistry.Node) {
	v.seen[nodePair{a, b}] = true
}

func (v *visitedChain) pop(a, b *modelregistry.Node) {
	delete(v.seen, nodePair{a, b})
}
