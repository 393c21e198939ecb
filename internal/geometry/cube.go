// Package geometry holds the 13-node Metatron's Cube layout the repeater
// spreads its working buffer across, and the connection-walk pass that the
// hot loop runs. The node table is decorative but fixed: every node is
// initialized once and the partition always covers the buffer exactly.
package geometry

import (
	"math"
	"strconv"
	"strings"
)

// NodeCount is the number of circles in Metatron's Cube.
const NodeCount = 13

// Phi is the golden ratio, used to size the buffer chunks.
var Phi = (1 + math.Sqrt(5)) / 2

// Node is one circle of the cube: a slice of the working buffer plus the
// indices of the nodes it connects to.
type Node struct {
	Data        string
	Connections []int
}

// Cube is the full 13-node layout.
type Cube struct {
	nodes [NodeCount]Node
}

// connection table for Metatron's Cube
var connections = [NodeCount][]int{
	0:  {1, 2, 3, 4, 5, 6},
	1:  {0, 2, 3, 4, 5, 6, 7, 8},
	2:  {0, 1, 3, 4, 5, 6, 9, 10},
	3:  {0, 1, 2, 4, 5, 6, 11, 12},
	4:  {0, 1, 2, 3, 5, 6, 7, 10},
	5:  {0, 1, 2, 3, 4, 6, 8, 9},
	6:  {0, 1, 2, 3, 4, 5, 11, 12},
	7:  {1, 4, 8, 9, 10, 11, 12},
	8:  {1, 5, 7, 9, 10, 11, 12},
	9:  {2, 5, 7, 8, 10, 11, 12},
	10: {2, 4, 7, 8, 9, 11, 12},
	11: {3, 6, 7, 8, 9, 10, 12},
	12: {3, 6, 7, 8, 9, 10, 11},
}

// NewCube returns a cube with the fixed connection table and empty node data.
func NewCube() *Cube {
	c := &Cube{}
	for i := range c.nodes {
		c.nodes[i].Connections = connections[i]
	}
	return c
}

// Node returns the node at index i.
func (c *Cube) Node(i int) Node {
	return c.nodes[i]
}

// FillPhi expands base by self-concatenation until it reaches budget bytes,
// then partitions it across the nodes with golden-ratio chunk sizes: chunk i
// is budget/phi^(i+1), clamped to what remains, read from the expanded
// string at offset i*chunk mod its length. It returns the concatenation of
// all node data and the number of self-appends performed.
func (c *Cube) FillPhi(base string, budget int) (string, uint64) {
	if base == "" || budget <= 0 {
		return base, 0
	}

	var multiplier uint64
	var sb strings.Builder
	sb.Grow(budget + len(base))
	sb.WriteString(base)
	for sb.Len() < budget {
		sb.WriteString(base)
		multiplier++
	}
	expanded := sb.String()

	var joined strings.Builder
	remaining := budget
	for i := 0; i < NodeCount; i++ {
		chunk := int(float64(budget) / math.Pow(Phi, float64(i+1)))
		if chunk > remaining {
			chunk = remaining
		}
		off := 0
		if chunk > 0 {
			off = (i * chunk) % len(expanded)
		}
		end := off + chunk
		if end > len(expanded) {
			end = len(expanded)
		}
		c.nodes[i].Data = expanded[off:end]
		joined.WriteString(c.nodes[i].Data)
		remaining -= chunk
	}
	return joined.String(), multiplier
}

// Rechunk distributes buf evenly across the nodes, the remainder going one
// byte apiece to the leading nodes. The partition covers buf exactly.
func (c *Cube) Rechunk(buf string) {
	chunk := len(buf) / NodeCount
	remainder := len(buf) % NodeCount
	offset := 0
	for i := 0; i < NodeCount; i++ {
		size := chunk
		if i < remainder {
			size++
		}
		c.nodes[i].Data = buf[offset : offset+size]
		offset += size
	}
}

// Pass runs one repeat pass: for every node it concatenates the data of the
// node's connections plus the running count, incrementing the count per
// node. Returns the updated count. This is the hot loop body.
func (c *Cube) Pass(freq uint64, scratch *strings.Builder) uint64 {
	for i := range c.nodes {
		scratch.Reset()
		for _, conn := range c.nodes[i].Connections {
			scratch.WriteString(c.nodes[conn].Data)
		}
		scratch.WriteString(strconv.FormatUint(freq, 10))
		freq++
	}
	return freq
}
