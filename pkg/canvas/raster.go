package canvas

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"sync"
)

const (
	DefaultWidth  = 300
	DefaultHeight = 200

	pngDataURLPrefix = "data:image/png;base64,"
)

// Raster is an in-memory RGBA Surface. Lines are one pixel wide.
type Raster struct {
	mu    sync.Mutex
	img   *image.RGBA
	color color.Color
}

// NewRaster creates a transparent surface; non-positive sizes fall back to the defaults.
func NewRaster(width, height int) *Raster {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Raster{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		color: color.Black,
	}
}

// Bounds returns the size of the surface.
func (r *Raster) Bounds() image.Rectangle {
	return r.img.Bounds()
}

// At returns the color of a pixel.
func (r *Raster) At(p Point) color.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.img.At(p.X, p.Y)
}

// DrawLine rasterizes the segment with Bresenham's algorithm.
// The segment is clipped to the surface first, so far-off points cost nothing.
func (r *Raster) DrawLine(from, to Point) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from, to, ok := clipLine(from, to, r.img.Bounds())
	if !ok {
		return
	}

	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy

	x, y := from.X, from.Y
	for {
		r.img.Set(x, y, r.color)
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// Snapshot encodes the surface as a PNG data URL.
func (r *Raster) Snapshot() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, r.img); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Clear makes every pixel transparent.
func (r *Raster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	draw.Draw(r.img, r.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Restore paints a PNG data URL over the surface, anchored at the origin.
func (r *Raster) Restore(snapshot string) error {
	src, err := DecodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	draw.Draw(r.img, r.img.Bounds(), src, src.Bounds().Min, draw.Over)
	return nil
}

// DecodeSnapshot parses a PNG data URL.
func DecodeSnapshot(snapshot string) (image.Image, error) {
	if !strings.HasPrefix(snapshot, pngDataURLPrefix) {
		return nil, errors.New("snapshot is not a png data url")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(snapshot, pngDataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}

// clipLine clips the segment to b with Liang-Barsky. Math is done in float64
// so differences of extreme coordinates cannot overflow; the coordinate of the
// edge a clipped end lands on is taken from the edge itself.
func clipLine(from, to Point, b image.Rectangle) (Point, Point, bool) {
	if b.Empty() {
		return from, to, false
	}
	inside := func(p Point) bool { return image.Pt(p.X, p.Y).In(b) }
	if inside(from) && inside(to) {
		return from, to, true
	}

	bounds := [4]int{b.Min.X, b.Max.X - 1, b.Min.Y, b.Max.Y - 1}
	x0, y0 := float64(from.X), float64(from.Y)
	dx, dy := float64(to.X)-x0, float64(to.Y)-y0
	edges := [4][2]float64{
		{-dx, x0 - float64(bounds[0])},
		{dx, float64(bounds[1]) - x0},
		{-dy, y0 - float64(bounds[2])},
		{dy, float64(bounds[3]) - y0},
	}

	t0, t1 := 0.0, 1.0
	e0, e1 := -1, -1
	for i, edge := range edges {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return from, to, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return from, to, false
			}
			if t > t0 {
				t0, e0 = t, i
			}
		} else {
			if t < t0 {
				return from, to, false
			}
			if t < t1 {
				t1, e1 = t, i
			}
		}
	}

	at := func(t float64, edge int, end Point) Point {
		if edge < 0 {
			return end
		}
		p := Point{
			X: clamp(x0+t*dx, bounds[0], bounds[1]),
			Y: clamp(y0+t*dy, bounds[2], bounds[3]),
		}
		if edge < 2 {
			p.X = bounds[edge]
		} else {
			p.Y = bounds[edge]
		}
		return p
	}
	return at(t0, e0, from), at(t1, e1, to), true
}

func clamp(v float64, lo, hi int) int {
	return int(math.Round(min(max(v, float64(lo)), float64(hi))))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ Surface = (*Raster)(nil)
var _ Restorer = (*Raster)(nil)
