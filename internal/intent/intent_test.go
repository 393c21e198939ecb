package intent

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemoryGB(t *testing.T) {
	tests := []struct {
		in     string
		wantGB float64
		wantOK bool
	}{
		{"", 1.0, true},
		{"2", 2.0, true},
		{"0.5", 0.5, true},
		{"0", 0.0, true},
		{"lots", 1.0, false},
		{"-3", 1.0, false},
	}
	for _, tt := range tests {
		gb, ok := ParseMemoryGB(tt.in)
		if gb != tt.wantGB || ok != tt.wantOK {
			t.Errorf("ParseMemoryGB(%q) = %v, %v; want %v, %v", tt.in, gb, ok, tt.wantGB, tt.wantOK)
		}
	}
}

func TestReadFileStripsNUL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intent.bin")
	require.NoError(t, os.WriteFile(path, []byte("pea\x00ce"), 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "peace", got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestAssembleNoSource(t *testing.T) {
	_, err := Assemble(Options{})
	require.Error(t, err)
}

func TestAssembleMemoryDisabled(t *testing.T) {
	asm, err := Assemble(Options{Text: "I am Love.", MemoryGB: 0})
	require.NoError(t, err)

	assert.Equal(t, "I am Love.", asm.Buffer)
	assert.Equal(t, "I am Love.", asm.Display)
	assert.Equal(t, uint64(1), asm.Multiplier)
	assert.Equal(t, uint64(1), asm.HashMultiplier)
}

func TestAssembleNormalizesSources(t *testing.T) {
	// The short source is repeated toward the longer one's length before
	// concatenation.
	long := strings.Repeat("om mani padme hum ", 10)
	asm, err := Assemble(Options{
		Text:     "peace",
		Sources:  []Source{{Label: "(mantra.txt)", Text: long}},
		MemoryGB: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, "peace(mantra.txt)", asm.Display)
	assert.True(t, strings.HasPrefix(asm.Buffer, "peacepeace"), "short source should be repeated")
	assert.True(t, strings.HasSuffix(asm.Buffer, long))
}

func TestAssembleMemoryFill(t *testing.T) {
	// A hair over 2 KB budget: memoryBudget halves 4096 GBs' worth; use a
	// tiny fraction so the test stays fast.
	gb := 8192.0 / float64(1<<30) // budget of 4096 bytes
	asm, err := Assemble(Options{Text: "I am calm.", MemoryGB: gb})
	require.NoError(t, err)

	assert.Greater(t, asm.Multiplier, uint64(0))
	assert.NotEmpty(t, asm.Buffer)
	assert.LessOrEqual(t, len(asm.Buffer), 4096)
}

func TestAssembleHashing(t *testing.T) {
	gb := 8192.0 / float64(1<<30)
	asm, err := Assemble(Options{Text: "I am calm.", MemoryGB: gb, Hashing: true})
	require.NoError(t, err)

	// The buffer is the 64-char hex digest repeated to the budget.
	require.GreaterOrEqual(t, len(asm.Buffer), 64)
	digest := asm.Buffer[:64]
	assert.Regexp(t, "^[0-9a-f]{64}$", digest)
	for i := 64; i+64 <= len(asm.Buffer); i += 64 {
		require.Equal(t, digest, asm.Buffer[i:i+64])
	}
	assert.Greater(t, asm.HashMultiplier, uint64(1))
}

func TestAssembleHashingNoMemory(t *testing.T) {
	asm, err := Assemble(Options{Text: "I am calm.", MemoryGB: 0, Hashing: true})
	require.NoError(t, err)
	assert.Len(t, asm.Buffer, 64)
	assert.Equal(t, uint64(1), asm.HashMultiplier)
}

func TestAssembleCompressRoundTrips(t *testing.T) {
	asm, err := Assemble(Options{Text: "I am calm. ", MemoryGB: 0, Compress: true})
	require.NoError(t, err)

	r, err := zlib.NewReader(bytes.NewReader([]byte(asm.Buffer)))
	require.NoError(t, err)
	defer r.Close()
	plain, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "I am calm. ", string(plain))
}

func TestAssembleCubeCoversBuffer(t *testing.T) {
	asm, err := Assemble(Options{Text: "peace", MemoryGB: 0})
	require.NoError(t, err)

	var rebuilt strings.Builder
	for i := 0; i < 13; i++ {
		rebuilt.WriteString(asm.Cube.Node(i).Data)
	}
	assert.Equal(t, asm.Buffer, rebuilt.String())
}
