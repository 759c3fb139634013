package vision

import (
	"context"
	"image"
	"image/color"
	"sort"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// Gray is an 8-bit luminance raster.
type Gray struct {
	W, H int
	Pix  []uint8
}

// ToGray converts any image to luminance.
func ToGray(img image.Image) *Gray {
	b := img.Bounds()
	g := &Gray{W: b.Dx(), H: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy())}
	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < g.H; y++ {
			copy(g.Pix[y*g.W:(y+1)*g.W], src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X):])
		}
		return g
	}
	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < g.H; y++ {
			row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
			for x := 0; x < g.W; x++ {
				p := row[x*4 : x*4+3]
				r, gr, bl := uint32(p[0])*0x101, uint32(p[1])*0x101, uint32(p[2])*0x101
				g.Pix[y*g.W+x] = uint8((19595*r + 38470*gr + 7471*bl + 1<<15) >> 24)
			}
		}
		return g
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			g.Pix[y*g.W+x] = color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		}
	}
	return g
}

// maxCandidates bounds the placements held before overlapping ones are
// collapsed, so low confidences on flat screens stay linear.
const maxCandidates = 1 << 14

// Find returns every non-overlapping placement of tmpl in screen scoring at
// least confidence, best first. The scan checks ctx once per row and returns
// its error when done.
func Find(ctx context.Context, screen, tmpl *Gray, confidence float64) ([]domain.Match, error) {
	if tmpl.W == 0 || tmpl.H == 0 || tmpl.W > screen.W || tmpl.H > screen.H {
		return nil, ctx.Err()
	}
	if confidence < 0 {
		confidence = 0
	}

	n := tmpl.W * tmpl.H
	// Largest total difference that still reaches confidence.
	budget := int((1 - confidence) * 255 * float64(n))

	var candidates []domain.Match
	for y := 0; y+tmpl.H <= screen.H; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x+tmpl.W <= screen.W; x++ {
			sum, ok := diff(screen, tmpl, x, y, budget)
			if !ok {
				continue
			}
			candidates = append(candidates, domain.Match{
				X: x, Y: y, Width: tmpl.W, Height: tmpl.H,
				Score: 1 - float64(sum)/float64(n)/255,
			})
		}
		if len(candidates) > maxCandidates {
			candidates = suppress(candidates, tmpl.W, tmpl.H)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return suppress(candidates, tmpl.W, tmpl.H), nil
}

// diff sums absolute differences at (x, y), giving up once over budget.
func diff(screen, tmpl *Gray, x, y, budget int) (int, bool) {
	sum := 0
	for ty := 0; ty < tmpl.H; ty++ {
		srow := screen.Pix[(y+ty)*screen.W+x:]
		trow := tmpl.Pix[ty*tmpl.W : (ty+1)*tmpl.W]
		for tx, tv := range trow {
			d := int(srow[tx]) - int(tv)
			if d < 0 {
				d = -d
			}
			sum += d
		}
		if sum > budget {
			return sum, false
		}
	}
	return sum, true
}

type cell struct{ cx, cy int }

// suppress keeps the best match of every overlapping cluster. Candidates are
// all w x h, so two can only overlap when their w x h grid cells touch.
func suppress(candidates []domain.Match, w, h int) []domain.Match {
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	grid := make(map[cell][]domain.Match)
	var kept []domain.Match
	for _, c := range candidates {
		at := cell{c.X / w, c.Y / h}
		if !overlapsAny(grid, at, c) {
			grid[at] = append(grid[at], c)
			kept = append(kept, c)
		}
	}
	return kept
}

func overlapsAny(grid map[cell][]domain.Match, at cell, c domain.Match) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, k := range grid[cell{at.cx + dx, at.cy + dy}] {
				if c.X < k.X+k.Width && k.X < c.X+c.Width && c.Y < k.Y+k.Height && k.Y < c.Y+c.Height {
					return true
				}
			}
		}
	}
	return false
}
