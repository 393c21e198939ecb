package servitor

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
)

const sigilChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Witch wheel rings, innermost first. Every character of sigilChars
// appears on exactly one ring.
var sigilRings = []string{
	"VWXYZ0123",
	"NOPQRSTU4567",
	"ABCDEFGHIJKLM89",
}

// SigilGenerator draws witch-wheel sigils as PNG images: the text's
// characters are mapped to fixed positions on three concentric rings and
// joined with straight lines inside an outer circle.
type SigilGenerator struct {
	Size int // canvas edge in pixels
}

// NewSigilGenerator returns a generator with the standard 500px canvas.
func NewSigilGenerator() *SigilGenerator {
	return &SigilGenerator{Size: 500}
}

type sigilPoint struct {
	x, y float64
}

func (g *SigilGenerator) wheel() map[rune]sigilPoint {
	center := float64(g.Size) / 2
	outer := center - 10
	radii := []float64{outer * 0.3, outer * 0.6, outer}

	m := make(map[rune]sigilPoint, len(sigilChars))
	for ring, chars := range sigilRings {
		step := 2 * math.Pi / float64(len(chars))
		for i, c := range chars {
			angle := -math.Pi/2 + step*float64(i)
			m[c] = sigilPoint{
				x: center + radii[ring]*math.Cos(angle),
				y: center + radii[ring]*math.Sin(angle),
			}
		}
	}
	return m
}

// sigilText uppercases the input, drops anything outside A-Z0-9, and
// keeps the first occurrence of each character.
func sigilText(text string) string {
	seen := make(map[rune]bool)
	var b strings.Builder
	for _, r := range strings.ToUpper(text) {
		if !strings.ContainsRune(sigilChars, r) || seen[r] {
			continue
		}
		seen[r] = true
		b.WriteRune(r)
	}
	return b.String()
}

// Generate draws the sigil for text and writes the PNG to path.
func (g *SigilGenerator) Generate(text, path string) error {
	cleaned := sigilText(text)
	if cleaned == "" {
		return fmt.Errorf("sigil: no usable characters in %q", text)
	}

	img := image.NewRGBA(image.Rect(0, 0, g.Size, g.Size))
	for i := range img.Pix {
		img.Pix[i] = 0xff // white canvas
	}

	black := color.RGBA{A: 0xff}
	center := g.Size / 2
	drawCircle(img, center, center, center-10, black)

	wheel := g.wheel()
	var points []sigilPoint
	for _, c := range cleaned {
		points = append(points, wheel[c])
	}
	for i := 0; i < len(points)-1; i++ {
		drawLine(img, points[i], points[i+1], black)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sigil %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode sigil %s: %w", path, err)
	}
	return f.Close()
}

// GenerateFor draws the sigil for a servitor's name and purpose into dir
// and returns the image path.
func (g *SigilGenerator) GenerateFor(sv *Servitor, dir string) (string, error) {
	base := strings.TrimSuffix(recordName(sv.Name), ".json")
	path := filepath.Join(dir, base+"_sigil.png")
	if err := g.Generate(sv.Name+" "+sv.Purpose, path); err != nil {
		return "", err
	}
	return path, nil
}

// drawLine plots a 2px Bresenham line between two points.
func drawLine(img *image.RGBA, a, b sigilPoint, c color.Color) {
	x0, y0 := int(math.Round(a.x)), int(math.Round(a.y))
	x1, y1 := int(math.Round(b.x)), int(math.Round(b.y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawCircle plots a 2px midpoint circle.
func drawCircle(img *image.RGBA, cx, cy, r int, c color.Color) {
	x, y := r, 0
	e := 1 - r
	for x >= y {
		plot(img, cx+x, cy+y, c)
		plot(img, cx+y, cy+x, c)
		plot(img, cx-y, cy+x, c)
		plot(img, cx-x, cy+y, c)
		plot(img, cx-x, cy-y, c)
		plot(img, cx-y, cy-x, c)
		plot(img, cx+y, cy-x, c)
		plot(img, cx+x, cy-y, c)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

// plot sets a 2x2 block so strokes read as 2px wide.
func plot(img *image.RGBA, x, y int, c color.Color) {
	for dx := 0; dx < 2; dx++ {
		for dy := 0; dy < 2; dy++ {
			if (image.Point{X: x + dx, Y: y + dy}).In(img.Rect) {
				img.Set(x+dx, y+dy, c)
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
