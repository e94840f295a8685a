package topology

import (
	"github.com/dhconnelly/rtreego"
)

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLon float64 // Western edge
	MaxLon float64 // Eastern edge
	MinLat float64 // Southern edge
	MaxLat float64 // Northern edge
}

// Intersects returns true if the given bounds intersects with this bounds.
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxLon < b.MinLon ||
		other.MinLon > b.MaxLon ||
		other.MaxLat < b.MinLat ||
		other.MinLat > b.MaxLat)
}

// rect converts bounds to an R-tree rectangle.
// R-tree requires non-zero dimensions, so point and line extents are padded.
func (b Bounds) rect() rtreego.Rect {
	point := rtreego.Point{b.MinLon, b.MinLat}

	// ~11 meters at the equator
	const epsilon = 0.0001
	lonLength := b.MaxLon - b.MinLon
	latLength := b.MaxLat - b.MinLat
	if lonLength < epsilon {
		lonLength = epsilon
	}
	if latLength < epsilon {
		latLength = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return rect
}
