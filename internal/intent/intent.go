// Package intent assembles the repeater's working buffer from its sources:
// the typed intention, up to two files, and any Holo-Link or nesting text.
// Assembly follows a fixed order: normalize sources to the longest one,
// concatenate, fill memory through the cube's phi partition, then the
// optional hash and compress steps.
package intent

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"

	"intention/internal/geometry"
)

// DefaultMemoryGB is used when --imem is absent or unparseable.
const DefaultMemoryGB = 1.0

// Source is one labeled contributor to the working buffer.
type Source struct {
	Label string // shown in the status line, e.g. "(intentions.txt)"
	Text  string
}

// Options selects the assembly steps.
type Options struct {
	Text     string // the typed intention
	Sources  []Source
	MemoryGB float64 // 0 disables memory filling
	Hashing  bool
	Compress bool
}

// Assembly is the ready-to-repeat state.
type Assembly struct {
	Display        string // what the status line names
	Buffer         string // the processed working buffer
	Cube           *geometry.Cube
	Multiplier     uint64 // self-appends during the memory fill
	HashMultiplier uint64 // digest self-appends, 1 when hashing is off
}

// ReadFile loads an intention source file, stripping NUL bytes so binary
// files (--file2 accepts images) stay printable in the buffer.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read intention file: %w", err)
	}
	return string(bytes.ReplaceAll(raw, []byte{0}, nil)), nil
}

// ParseMemoryGB interprets an --imem value. Non-numeric input falls back to
// the default; the ok result lets the caller warn.
func ParseMemoryGB(s string) (gb float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMemoryGB, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return DefaultMemoryGB, false
	}
	return v, true
}

// Assemble builds the working buffer and cube from opts.
func Assemble(opts Options) (*Assembly, error) {
	asm := &Assembly{
		Cube:           geometry.NewCube(),
		HashMultiplier: 1,
	}

	// Normalize: every present source is self-concatenated until it
	// reaches the longest source's length.
	texts := make([]string, 0, len(opts.Sources)+1)
	if opts.Text != "" {
		texts = append(texts, opts.Text)
	}
	for _, src := range opts.Sources {
		texts = append(texts, src.Text)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no intention source")
	}
	maxLen := 0
	for _, t := range texts {
		if len(t) > maxLen {
			maxLen = len(t)
		}
	}
	var combined strings.Builder
	for _, t := range texts {
		combined.WriteString(normalize(t, maxLen))
	}
	base := combined.String()

	asm.Display = opts.Text
	for _, src := range opts.Sources {
		asm.Display += src.Label
	}

	budget := memoryBudget(opts.MemoryGB)
	if budget > 0 {
		asm.Buffer, asm.Multiplier = asm.Cube.FillPhi(base, budget)
	} else {
		asm.Buffer = base
		asm.Multiplier = 1
	}

	if opts.Hashing {
		digest := sha256.Sum256([]byte(asm.Buffer))
		hashed := hex.EncodeToString(digest[:])
		if budget > 0 {
			var sb strings.Builder
			sb.Grow(budget + len(hashed))
			for sb.Len() < budget {
				sb.WriteString(hashed)
				asm.HashMultiplier++
			}
			asm.Buffer = sb.String()
		} else {
			asm.Buffer = hashed
			asm.HashMultiplier = 1
		}
	}

	if opts.Compress {
		compressed, err := deflate(asm.Buffer)
		if err != nil {
			return nil, fmt.Errorf("compress intention: %w", err)
		}
		asm.Buffer = compressed
	}

	asm.Cube.Rechunk(asm.Buffer)
	return asm, nil
}

// normalize repeats text until its length reaches target.
func normalize(text string, target int) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(target + len(text))
	sb.WriteString(text)
	for sb.Len()+len(text) < target {
		sb.WriteString(text)
	}
	return sb.String()
}

// memoryBudget converts GB to the working byte budget: half the requested
// amount, leaving headroom for the fill's intermediate copies.
func memoryBudget(gb float64) int {
	if gb <= 0 {
		return 0
	}
	return int(gb * float64(1<<30) / 2)
}

func deflate(s string) (string, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
