// Package arg provides an in-memory ancestral recombination graph (tree
// sequence): genealogical nodes, edges spanning genomic intervals, and the
// traversal primitives the synthesis engine consumes (sample listing, MRCA
// lookup, span-weighted pairwise distance).
package arg

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/seqgeo/argplace/internal/model"
)

// NodeID indexes a node within a tree sequence.
type NodeID int32

// NullNode marks the absence of a node (no MRCA in a tree).
const NullNode NodeID = -1

// DefaultDistanceFallback substitutes for pairs that share no resolvable
// ancestry anywhere along the genome.
const DefaultDistanceFallback = 1000.0

// Node is one genealogical node. Sample nodes carry a name; internal nodes
// do not.
type Node struct {
	Time     float64      `json:"time"`
	IsSample bool         `json:"is_sample"`
	Name     model.Sample `json:"name,omitempty"`
}

// Edge records that Parent is the immediate ancestor of Child over the
// half-open genomic interval [Left, Right).
type Edge struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Parent NodeID  `json:"parent"`
	Child  NodeID  `json:"child"`
}

// TreeSequence is a set of local genealogies along a genome.
type TreeSequence struct {
	SequenceLength float64 `json:"sequence_length"`
	Nodes          []Node  `json:"nodes"`
	Edges          []Edge  `json:"edges"`

	// fallback distance for unresolvable pairs; DefaultDistanceFallback
	// when zero.
	DistanceFallback float64 `json:"-"`

	sampleIndex map[model.Sample]NodeID
	trees       []Tree
}

// Tree is one local genealogy spanning a genomic interval.
type Tree struct {
	Left   float64
	Right  float64
	parent map[NodeID]NodeID
	nodes  []Node
}

// Span returns the genomic length this tree covers.
func (t *Tree) Span() float64 { return t.Right - t.Left }

// Time returns the time of a node, or 0 for out-of-range IDs.
func (t *Tree) Time(n NodeID) float64 {
	if n < 0 || int(n) >= len(t.nodes) {
		return 0
	}
	return t.nodes[n].Time
}

// MRCA returns the most recent common ancestor of a and b in this tree, or
// NullNode when the two samples do not coalesce within it.
func (t *Tree) MRCA(a, b NodeID) NodeID {
	ancestors := make(map[NodeID]struct{})
	for n := a; n != NullNode; {
		ancestors[n] = struct{}{}
		p, ok := t.parent[n]
		if !ok {
			break
		}
		n = p
	}
	for n := b; n != NullNode; {
		if _, ok := ancestors[n]; ok {
			return n
		}
		p, ok := t.parent[n]
		if !ok {
			break
		}
		n = p
	}
	return NullNode
}

// Validate checks structural integrity: positive sequence length, edges
// within bounds, parents strictly older than children, and unique sample
// names. It also builds the internal indexes, so it must be called (directly
// or via Load) before traversal.
func (ts *TreeSequence) Validate() error {
	if ts.SequenceLength <= 0 {
		return eris.New("arg: sequence length must be positive")
	}
	ts.sampleIndex = make(map[model.Sample]NodeID)
	for i, n := range ts.Nodes {
		if math.IsNaN(n.Time) || math.IsInf(n.Time, 0) {
			return eris.Errorf("arg: node %d has non-finite time", i)
		}
		if n.IsSample {
			if n.Name == "" {
				return eris.Errorf("arg: sample node %d has no name", i)
			}
			if _, dup := ts.sampleIndex[n.Name]; dup {
				return eris.Errorf("arg: duplicate sample name %q", n.Name)
			}
			ts.sampleIndex[n.Name] = NodeID(i)
		}
	}
	for i, e := range ts.Edges {
		if e.Left < 0 || e.Right > ts.SequenceLength || e.Left >= e.Right {
			return eris.Errorf("arg: edge %d interval [%g, %g) out of bounds", i, e.Left, e.Right)
		}
		if int(e.Parent) >= len(ts.Nodes) || int(e.Child) >= len(ts.Nodes) || e.Parent < 0 || e.Child < 0 {
			return eris.Errorf("arg: edge %d references unknown node", i)
		}
		if ts.Nodes[e.Parent].Time <= ts.Nodes[e.Child].Time {
			return eris.Errorf("arg: edge %d parent not older than child", i)
		}
	}
	ts.trees = ts.buildTrees()
	return nil
}

// Samples returns the sample names in node order. The order is stable for
// the lifetime of the tree sequence.
func (ts *TreeSequence) Samples() []model.Sample {
	samples := make([]model.Sample, 0, len(ts.sampleIndex))
	for _, n := range ts.Nodes {
		if n.IsSample {
			samples = append(samples, n.Name)
		}
	}
	return samples
}

// Trees returns the local genealogies in genomic order.
func (ts *TreeSequence) Trees() []Tree {
	return ts.trees
}

// buildTrees partitions the genome at edge breakpoints and materializes the
// parent mapping for each interval.
func (ts *TreeSequence) buildTrees() []Tree {
	breakSet := map[float64]struct{}{0: {}, ts.SequenceLength: {}}
	for _, e := range ts.Edges {
		breakSet[e.Left] = struct{}{}
		breakSet[e.Right] = struct{}{}
	}
	breaks := make([]float64, 0, len(breakSet))
	for b := range breakSet {
		if b >= 0 && b <= ts.SequenceLength {
			breaks = append(breaks, b)
		}
	}
	sort.Float64s(breaks)

	trees := make([]Tree, 0, len(breaks)-1)
	for i := 0; i+1 < len(breaks); i++ {
		left, right := breaks[i], breaks[i+1]
		if right <= left {
			continue
		}
		t := Tree{Left: left, Right: right, parent: make(map[NodeID]NodeID), nodes: ts.Nodes}
		for _, e := range ts.Edges {
			if e.Left <= left && e.Right >= right {
				t.parent[e.Child] = e.Parent
			}
		}
		trees = append(trees, t)
	}
	return trees
}

// PairwiseDistance returns the genomically weighted genealogical distance
// between two samples: for each local tree, the sum of branch lengths from
// both samples up to their MRCA, weighted by the tree's span and normalized
// by the total span where the pair coalesces. Pairs with no resolvable
// ancestry anywhere get the fallback distance. It never errors for samples
// known to the sequence.
func (ts *TreeSequence) PairwiseDistance(a, b model.Sample) (float64, error) {
	na, ok := ts.sampleIndex[a]
	if !ok {
		return 0, eris.Errorf("arg: unknown sample %q", a)
	}
	nb, ok := ts.sampleIndex[b]
	if !ok {
		return 0, eris.Errorf("arg: unknown sample %q", b)
	}
	if na == nb {
		return 0, nil
	}

	fallback := ts.DistanceFallback
	if fallback == 0 {
		fallback = DefaultDistanceFallback
	}

	var totalDistance, totalSpan float64
	for i := range ts.trees {
		t := &ts.trees[i]
		span := t.Span()
		if span == 0 {
			continue
		}
		mrca := t.MRCA(na, nb)
		if mrca == NullNode {
			continue
		}
		d := (t.Time(mrca) - t.Time(na)) + (t.Time(mrca) - t.Time(nb))
		totalDistance += d * span
		totalSpan += span
	}

	if totalSpan == 0 {
		return fallback, nil
	}
	return totalDistance / totalSpan, nil
}
