package constraints

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Rectangle is a resource usage of Height over the time window
// [Start, End).
type Rectangle struct {
	Start, End, Height int
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%d,%d)h=%d", r.Start, r.End, r.Height)
}

// Profile is the sum of a set of rectangles as a step function: contiguous
// rectangles of constant height covering the whole time line, from
// math.MinInt to math.MaxInt. Neighbours always differ in height.
type Profile struct {
	rects []Rectangle
}

type profilePoint struct {
	t, dh int
}

// NewProfile sweeps the start and end points of rects into a profile.
// Empty rectangles are ignored.
func NewProfile(rects ...Rectangle) *Profile {
	points := make([]profilePoint, 0, 2*len(rects)+2)
	for _, r := range rects {
		if r.End <= r.Start {
			continue
		}
		points = append(points, profilePoint{r.Start, r.Height}, profilePoint{r.End, -r.Height})
	}
	points = append(points, profilePoint{math.MinInt, 0}, profilePoint{math.MaxInt, 0})
	sort.Slice(points, func(a, b int) bool { return points[a].t < points[b].t })

	p := &Profile{}
	height, at := 0, points[0].t
	for _, pt := range points {
		if pt.t != at {
			p.add(Rectangle{Start: at, End: pt.t, Height: height})
			at = pt.t
		}
		height += pt.dh
	}
	return p
}

func (p *Profile) add(r Rectangle) {
	if n := len(p.rects); n > 0 && p.rects[n-1].Height == r.Height {
		p.rects[n-1].End = r.End
		return
	}
	p.rects = append(p.rects, r)
}

// Size returns the number of rectangles.
func (p *Profile) Size() int { return len(p.rects) }

// Get returns the i-th rectangle in time order.
func (p *Profile) Get(i int) Rectangle { return p.rects[i] }

// RectangleIndex returns the index of the rectangle containing t.
func (p *Profile) RectangleIndex(t int) int {
	return sort.Search(len(p.rects), func(i int) bool { return p.rects[i].End > t })
}

// MaxHeight returns the tallest rectangle's height.
func (p *Profile) MaxHeight() int {
	h := 0
	for _, r := range p.rects {
		h = max(h, r.Height)
	}
	return h
}

func (p *Profile) String() string {
	parts := make([]string, 0, len(p.rects))
	for _, r := range p.rects {
		if r.Height != 0 {
			parts = append(parts, r.String())
		}
	}
	return strings.Join(parts, " ")
}
