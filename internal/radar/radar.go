// Package radar lays out the skill-profile radar chart and tracks which
// profiles are currently shown.
package radar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Palette holds a profile color per page theme.
type Palette struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// Profile is one filled polygon on the chart.
type Profile struct {
	ID      string    `yaml:"id"`
	Label   string    `yaml:"label"`
	Colors  Palette   `yaml:"colors"`
	Opacity float64   `yaml:"opacity"`
	Scores  []float64 `yaml:"scores"`
}

// Color returns the profile color for the theme.
func (p Profile) Color(dark bool) string {
	if dark {
		return p.Colors.Dark
	}
	return p.Colors.Light
}

// Chart is the static radar definition: one axis per dimension and one
// score per dimension for every profile.
type Chart struct {
	Dimensions []string  `yaml:"dimensions"`
	Max        float64   `yaml:"max"`
	Rings      int       `yaml:"rings"`
	Profiles   []Profile `yaml:"profiles"`
}

// Validate reports every structural problem in the chart.
func (c *Chart) Validate() error {
	var errs []error
	if len(c.Dimensions) < 3 {
		errs = append(errs, fmt.Errorf("radar: need at least 3 dimensions, got %d", len(c.Dimensions)))
	}
	if c.Max <= 0 {
		errs = append(errs, fmt.Errorf("radar: max must be positive, got %v", c.Max))
	}
	seen := make(map[string]bool)
	for i, p := range c.Profiles {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("radar: profile %d has no id", i))
		} else if seen[p.ID] {
			errs = append(errs, fmt.Errorf("radar: duplicate profile %q", p.ID))
		}
		seen[p.ID] = true
		if len(p.Scores) != len(c.Dimensions) {
			errs = append(errs, fmt.Errorf("radar: profile %q has %d scores for %d dimensions", p.ID, len(p.Scores), len(c.Dimensions)))
		}
		for j, s := range p.Scores {
			if s < 0 || s > c.Max {
				errs = append(errs, fmt.Errorf("radar: profile %q score %d = %v outside [0, %v]", p.ID, j, s, c.Max))
			}
		}
	}
	return errors.Join(errs...)
}

// Profile looks up a profile by id.
func (c *Chart) Profile(id string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// IDs returns every profile id in chart order.
func (c *Chart) IDs() []string {
	ids := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		ids[i] = p.ID
	}
	return ids
}

// Point is a position in SVG user space.
type Point struct {
	X, Y float64
}

// Axis is one spoke of the chart with its label anchor.
type Axis struct {
	Label  string
	End    Point
	Anchor Point
	// Align is the SVG text-anchor for the label.
	Align string
}

// Series is a rendered profile polygon.
type Series struct {
	ID      string
	Label   string
	Color   string
	Opacity float64
	Points  string
}

// Plot is the geometry of a chart drawn inside a size×size square.
type Plot struct {
	Size   float64
	Center Point
	Radius float64
	Rings  []string
	Axes   []Axis
	Series []Series
}

// Plot computes the chart geometry for the selected profiles. Axis i
// points at angle -π/2 + 2πi/n, so the first dimension is straight up.
func (c *Chart) Plot(size float64, sel Selection, dark bool) Plot {
	center := Point{size / 2, size / 2}
	radius := size * 0.34
	n := len(c.Dimensions)

	rings := c.Rings
	if rings <= 0 {
		rings = 5
	}

	p := Plot{Size: size, Center: center, Radius: radius}
	for r := 1; r <= rings; r++ {
		frac := float64(r) / float64(rings)
		pts := make([]Point, n)
		for i := range pts {
			pts[i] = polar(center, radius*frac, angle(i, n))
		}
		p.Rings = append(p.Rings, polygon(pts))
	}

	for i, dim := range c.Dimensions {
		a := angle(i, n)
		axis := Axis{
			Label:  dim,
			End:    polar(center, radius, a),
			Anchor: polar(center, radius+16, a),
			Align:  "middle",
		}
		switch cos := math.Cos(a); {
		case cos > 0.2:
			axis.Align = "start"
		case cos < -0.2:
			axis.Align = "end"
		}
		p.Axes = append(p.Axes, axis)
	}

	for _, prof := range c.Profiles {
		if !sel.Has(prof.ID) {
			continue
		}
		pts := make([]Point, n)
		for i := range pts {
			score := 0.0
			if i < len(prof.Scores) {
				score = prof.Scores[i]
			}
			pts[i] = polar(center, radius*score/c.Max, angle(i, n))
		}
		p.Series = append(p.Series, Series{
			ID:      prof.ID,
			Label:   prof.Label,
			Color:   prof.Color(dark),
			Opacity: prof.Opacity,
			Points:  polygon(pts),
		})
	}
	return p
}

// Series returns the scores of every selected profile in chart order,
// for plotting outside SVG.
func (c *Chart) Series(sel Selection) (labels []string, data [][]float64) {
	for _, prof := range c.Profiles {
		if !sel.Has(prof.ID) {
			continue
		}
		labels = append(labels, prof.Label)
		data = append(data, append([]float64(nil), prof.Scores...))
	}
	return labels, data
}

func angle(i, n int) float64 {
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
}

func polar(c Point, r, a float64) Point {
	return Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
}

func polygon(pts []Point) string {
	var b strings.Builder
	for i, pt := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(pt.X, 'f', 2, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(pt.Y, 'f', 2, 64))
	}
	return b.String()
}
