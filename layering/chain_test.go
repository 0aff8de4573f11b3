package layering

import (
	"reflect"
	"testing"
)

type node struct {
	name   string
	parent *node
	values map[string]int
}

func parentOf(n *node) *node {
	return n.parent
}

func TestWalkOrdersStrongestFirst(t *testing.T) {
	root := &node{name: "root"}
	mid := &node{name: "mid", parent: root}
	leaf := &node{name: "leaf", parent: mid}

	chain := Walk(leaf, parentOf)

	got := make([]string, 0, chain.Len())
	for _, n := range chain.Ordered() {
		got = append(got, n.name)
	}
	if want := []string{"leaf", "mid", "root"}; !reflect.DeepEqual(want, got) {
		t.Fatalf("unexpected order\nwant: %v\n got: %v", want, got)
	}
	if chain.Strongest() != leaf {
		t.Fatalf("expected leaf to be strongest, got %s", chain.Strongest().name)
	}
	if chain.Weakest() != root {
		t.Fatalf("expected root to be weakest, got %s", chain.Weakest().name)
	}
}

func TestWalkEmptyAndCycle(t *testing.T) {
	empty := Walk[*node](nil, parentOf)
	if empty.Len() != 0 || empty.Strongest() != nil || empty.Weakest() != nil {
		t.Fatalf("expected empty chain, got %+v", empty.Ordered())
	}

	a := &node{name: "a"}
	b := &node{name: "b", parent: a}
	a.parent = b
	if got := Walk(a, parentOf).Len(); got != 2 {
		t.Fatalf("expected cycle to stop after 2 layers, got %d", got)
	}
}

func TestOrderedReturnsCopy(t *testing.T) {
	root := &node{name: "root"}
	chain := Walk(&node{name: "leaf", parent: root}, parentOf)
	ordered := chain.Ordered()
	ordered[0] = nil
	if chain.Strongest() == nil {
		t.Fatalf("mutating Ordered result must not affect chain")
	}
}

func TestFindReturnsFirstHolder(t *testing.T) {
	root := &node{name: "root", values: map[string]int{"a": 1, "b": 2}}
	mid := &node{name: "mid", parent: root, values: map[string]int{"b": 20}}
	leaf := &node{name: "leaf", parent: mid}
	chain := Walk(leaf, parentOf)

	lookup := func(key string) func(*node) (int, bool) {
		return func(n *node) (int, bool) {
			v, ok := n.values[key]
			return v, ok
		}
	}

	if v, idx, ok := Find(chain, lookup("b")); !ok || v != 20 || idx != 1 {
		t.Fatalf("expected b=20 from index 1, got %d %d %v", v, idx, ok)
	}
	if v, idx, ok := Find(chain, lookup("a")); !ok || v != 1 || idx != 2 {
		t.Fatalf("expected a=1 from index 2, got %d %d %v", v, idx, ok)
	}
	if _, idx, ok := Find(chain, lookup("missing")); ok || idx != -1 {
		t.Fatalf("expected missing key to report -1, got %d %v", idx, ok)
	}
}
