package geometry

import (
	"strings"
	"testing"
)

func TestNewCubeConnections(t *testing.T) {
	c := NewCube()

	for i := 0; i < NodeCount; i++ {
		node := c.Node(i)
		if len(node.Connections) == 0 {
			t.Fatalf("node %d has no connections", i)
		}
		seen := map[int]bool{}
		for _, conn := range node.Connections {
			if conn < 0 || conn >= NodeCount {
				t.Errorf("node %d connects to out-of-range node %d", i, conn)
			}
			if conn == i {
				t.Errorf("node %d connects to itself", i)
			}
			if seen[conn] {
				t.Errorf("node %d lists node %d twice", i, conn)
			}
			seen[conn] = true
		}
	}

	// The cube is undirected: every connection appears in both directions.
	for i := 0; i < NodeCount; i++ {
		for _, conn := range c.Node(i).Connections {
			found := false
			for _, back := range c.Node(conn).Connections {
				if back == i {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("node %d -> %d has no reverse connection", i, conn)
			}
		}
	}
}

func TestFillPhi(t *testing.T) {
	c := NewCube()
	base := "I am Love."
	budget := 4096

	joined, multiplier := c.FillPhi(base, budget)

	if multiplier == 0 {
		t.Error("expected at least one self-append for a small base")
	}
	if len(joined) > budget {
		t.Errorf("joined length %d exceeds budget %d", len(joined), budget)
	}
	// The chunks shrink with phi: the first node gets the largest share.
	if len(c.Node(0).Data) <= len(c.Node(5).Data) {
		t.Errorf("chunk sizes should decay: node0=%d node5=%d",
			len(c.Node(0).Data), len(c.Node(5).Data))
	}
	var total int
	for i := 0; i < NodeCount; i++ {
		total += len(c.Node(i).Data)
	}
	if total != len(joined) {
		t.Errorf("node data totals %d, joined is %d", total, len(joined))
	}
}

func TestFillPhiEmptyAndZeroBudget(t *testing.T) {
	c := NewCube()
	if joined, mult := c.FillPhi("", 1024); joined != "" || mult != 0 {
		t.Errorf("FillPhi(empty) = %q, %d", joined, mult)
	}
	if joined, mult := c.FillPhi("abc", 0); joined != "abc" || mult != 0 {
		t.Errorf("FillPhi(budget 0) = %q, %d", joined, mult)
	}
}

func TestRechunkCoversBuffer(t *testing.T) {
	c := NewCube()
	// 13 does not divide 100; the remainder spreads over the leading nodes.
	buf := strings.Repeat("abcdefghij", 10)
	c.Rechunk(buf)

	var rebuilt strings.Builder
	for i := 0; i < NodeCount; i++ {
		rebuilt.WriteString(c.Node(i).Data)
	}
	if rebuilt.String() != buf {
		t.Fatal("rechunked nodes do not rebuild the buffer")
	}
	if len(c.Node(0).Data) != len(c.Node(1).Data) {
		t.Errorf("leading remainder nodes differ: %d vs %d",
			len(c.Node(0).Data), len(c.Node(1).Data))
	}
	if len(c.Node(0).Data) != len(c.Node(12).Data)+1 {
		t.Errorf("remainder byte missing: node0=%d node12=%d",
			len(c.Node(0).Data), len(c.Node(12).Data))
	}
}

func TestPassIncrementsPerNode(t *testing.T) {
	c := NewCube()
	c.Rechunk(strings.Repeat("x", 130))

	var scratch strings.Builder
	freq := c.Pass(0, &scratch)
	if freq != NodeCount {
		t.Fatalf("one pass advanced freq to %d, want %d", freq, NodeCount)
	}
	freq = c.Pass(freq, &scratch)
	if freq != 2*NodeCount {
		t.Fatalf("two passes advanced freq to %d, want %d", freq, 2*NodeCount)
	}
}
