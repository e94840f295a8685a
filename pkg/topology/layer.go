package topology

import (
	"fmt"

	"github.com/beetlebugorg/topo/internal/manifest"
)

// Variant distinguishes plain geometry layers from labeled ones.
type Variant int

const (
	// Geometry layers draw shapes only.
	Geometry Variant = iota
	// LabeledGeometry layers also draw one attribute field as a label.
	LabeledGeometry
)

func (v Variant) String() string {
	switch v {
	case Geometry:
		return "geometry"
	case LabeledGeometry:
		return "labeled"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Color is an 8-bit RGB display color.
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Layer is one configured overlay.
//
// Everything except the dirty flag and the shape cache is fixed at
// construction. Both of those are only touched by the Store under its
// exclusive lock.
type Layer struct {
	path           string
	variant        Variant
	color          Color
	scaleThreshold float64
	iconID         int
	icon           Icon
	labelField     int

	dirty   bool
	inScale bool
	cache   *shapeCache
}

// newLayer builds a layer from a manifest entry. Geometry is opened by the
// store afterwards.
func newLayer(e manifest.Entry) *Layer {
	l := &Layer{
		path:           e.Path,
		variant:        Geometry,
		color:          Color{R: e.Red, G: e.Green, B: e.Blue},
		scaleThreshold: e.Range,
		iconID:         e.Icon,
		labelField:     -1,
		dirty:          true,
		cache:          newShapeCache(nil),
	}
	if e.Labeled() {
		l.variant = LabeledGeometry
		l.labelField = e.LabelField
	}
	return l
}

// Path returns the geometry file path.
func (l *Layer) Path() string { return l.path }

// Variant returns whether the layer carries labels.
func (l *Layer) Variant() Variant { return l.variant }

// Color returns the display color.
func (l *Layer) Color() Color { return l.color }

// ScaleThreshold returns the scale up to which the layer is visible.
func (l *Layer) ScaleThreshold() float64 { return l.scaleThreshold }

// IconID returns the configured icon id, 0 when none.
func (l *Layer) IconID() int { return l.iconID }

// Icon returns the loaded icon, nil when none was configured or loading failed.
func (l *Layer) Icon() Icon { return l.icon }

// LabelField returns the 0-based label attribute for labeled layers.
func (l *Layer) LabelField() (int, bool) {
	if l.variant != LabeledGeometry {
		return -1, false
	}
	return l.labelField, true
}

// Dirty reports whether the cache is waiting for a refresh.
func (l *Layer) Dirty() bool { return l.dirty }

// InScale reports the in-scale state seen at the last cache update.
func (l *Layer) InScale() bool { return l.inScale }

// triggerIfScaleNowVisible marks the layer dirty when its in-scale state no
// longer matches the one seen at the last cache update.
func (l *Layer) triggerIfScaleNowVisible(inScale bool) {
	if inScale != l.inScale {
		l.dirty = true
	}
}

// updateCache refreshes the shape cache of a dirty layer.
//
// Out of scale, the cache is flushed and the layer is clean. In scale, a
// purge-only pass leaves the layer dirty for a later call; a full pass clears
// the flag and rebuilds the cache for bounds.
func (l *Layer) updateCache(inScale bool, bounds Bounds, purgeOnly bool) error {
	if !l.dirty {
		return nil
	}

	l.inScale = inScale
	if !inScale {
		l.cache.flush()
		l.dirty = false
		return nil
	}
	if purgeOnly {
		return nil
	}

	l.dirty = false
	return l.cache.rebuild(bounds, l.labelField)
}

// release drops the cache and closes the geometry file.
func (l *Layer) release() error {
	return l.cache.close()
}

// view captures what a renderer needs. Caller holds at least the shared lock.
func (l *Layer) view() LayerView {
	return LayerView{
		Path:       l.path,
		Variant:    l.variant,
		Color:      l.color,
		Icon:       l.icon,
		LabelField: l.labelField,
		InScale:    l.inScale,
		Shapes:     l.cache.shapes(),
	}
}

func (l *Layer) info() LayerInfo {
	return LayerInfo{
		Path:           l.path,
		Variant:        l.variant,
		Color:          l.color,
		ScaleThreshold: l.scaleThreshold,
		IconID:         l.iconID,
		HasIcon:        l.icon != nil,
		LabelField:     l.labelField,
		Dirty:          l.dirty,
		InScale:        l.inScale,
		Cache:          l.cache.stats(),
	}
}

// LayerView is the read-only state handed to a Renderer.
type LayerView struct {
	Path       string
	Variant    Variant
	Color      Color
	Icon       Icon          // nil when absent
	LabelField int           // -1 for Geometry layers
	InScale    bool          // in-scale state at the last cache update
	Shapes     []CachedShape // cached shapes, in record order
}

// LayerInfo is a snapshot of a layer's configuration and cache state.
type LayerInfo struct {
	Path           string
	Variant        Variant
	Color          Color
	ScaleThreshold float64
	IconID         int
	HasIcon        bool
	LabelField     int
	Dirty          bool
	InScale        bool
	Cache          CacheStats
}
