package gamekit

import (
	"math/rand"
	"testing"

	"github.com/timpalpant/go-cfr"
	"github.com/timpalpant/go-cfr/tree"
)

func TestAsCFR_Sequential(t *testing.T) {
	g := newSequential(t)
	root, err := g.AsCFR(rand.New(rand.NewSource(123)))
	if err != nil {
		t.Fatal(err)
	}

	if root.Type() != cfr.PlayerNodeType || root.Player() != 0 {
		t.Errorf("root is %v of player %d, expected a node of player 0", root.Type(), root.Player())
	}
	left := root.GetChild(0)
	if left.Player() != 1 {
		t.Errorf("left child belongs to player %d, expected 1", left.Player())
	}
	if left.Parent() != root {
		t.Errorf("parent of left child is %v, expected the root", left.Parent())
	}
	if k0, k1 := root.InfoSet(0).Key(), left.InfoSet(1).Key(); k0 == k1 {
		t.Errorf("distinct infosets share key %q", k0)
	}

	leaf := left.GetChild(0)
	if leaf.Type() != cfr.TerminalNodeType {
		t.Fatalf("expected a terminal node, got %v", leaf.Type())
	}
	if u := leaf.Utility(0); u != 3 {
		t.Errorf("utility of player 0 is %v, expected 3", u)
	}
	if u := root.GetChild(1).Utility(1); u != 2 {
		t.Errorf("utility of player 1 is %v, expected 2", u)
	}
	root.Close()

	nodes, terminal := 0, 0
	infosets := make(map[string]bool)
	tree.Visit(root, func(node cfr.GameTreeNode) {
		nodes++
		switch node.Type() {
		case cfr.TerminalNodeType:
			terminal++
		case cfr.PlayerNodeType:
			infosets[node.InfoSet(node.Player()).Key()] = true
		}
	})
	if nodes != 5 {
		t.Errorf("visited %d nodes, expected 5", nodes)
	}
	if terminal != 3 {
		t.Errorf("visited %d terminal nodes, expected 3", terminal)
	}
	if len(infosets) != 2 {
		t.Errorf("visited %d infosets, expected 2", len(infosets))
	}
}

func TestAsCFR_Chance(t *testing.T) {
	g := newCoinFlip(t)
	root, err := g.AsCFR(rand.New(rand.NewSource(123)))
	if err != nil {
		t.Fatal(err)
	}
	if root.Type() != cfr.ChanceNodeType {
		t.Fatalf("expected a chance node, got %v", root.Type())
	}
	if root.Player() != -1 {
		t.Errorf("chance node belongs to player %d", root.Player())
	}
	for i := 0; i < root.NumChildren(); i++ {
		if p := root.GetChildProbability(i); p != 0.5 {
			t.Errorf("child %d has probability %v, expected 0.5", i, p)
		}
	}

	child, p := root.SampleChild()
	if p != 0.5 {
		t.Errorf("sampled child has probability %v, expected 0.5", p)
	}
	if u := child.Utility(0) + child.Utility(1); u != 2 {
		t.Errorf("utilities sum to %v, expected 2", u)
	}
}

func TestAsCFR_Matrix(t *testing.T) {
	g, err := NewMatrix([]int{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AsCFR(rand.New(rand.NewSource(123))); err == nil {
		t.Error("expected an error for a matrix game")
	}
}

func TestMarshalCFRInfoSet(t *testing.T) {
	is := &CFRInfoSet{Player: 1, Infoset: 42, NumActions: 3}
	buf, err := is.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	var reloaded CFRInfoSet
	if err := reloaded.UnmarshalBinary(buf); err != nil {
		t.Fatal(err)
	}
	if reloaded != *is {
		t.Errorf("expected: %v, got: %v", *is, reloaded)
	}
	if err := reloaded.UnmarshalBinary(buf[:1]); err == nil {
		t.Error("expected an error for a truncated key")
	}
}
