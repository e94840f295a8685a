package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beetlebugorg/topo/internal/manifest"
)

func TestNewLayerVariants(t *testing.T) {
	plain := newLayer(manifest.ParseLine("rivers,500000,0,,64,96,240", "/maps"))
	assert.Equal(t, Geometry, plain.Variant())
	field, ok := plain.LabelField()
	assert.False(t, ok)
	assert.Equal(t, -1, field)
	assert.Equal(t, Color{85, 160, 255}, plain.Color())
	assert.True(t, plain.Dirty())
	assert.Nil(t, plain.Icon())

	labeled := newLayer(manifest.ParseLine("towns,20000,4,3,1,2,3", "/maps"))
	assert.Equal(t, LabeledGeometry, labeled.Variant())
	field, ok = labeled.LabelField()
	assert.True(t, ok)
	assert.Equal(t, 2, field)
	assert.Equal(t, 4, labeled.IconID())
	assert.Equal(t, 20000.0, labeled.ScaleThreshold())
}

func TestTriggerIfScaleNowVisible(t *testing.T) {
	l := newLayer(manifest.Entry{Range: 100, LabelField: -1})
	l.dirty = false

	// Matches the state seen at the last update: nothing to do.
	l.triggerIfScaleNowVisible(false)
	assert.False(t, l.Dirty())

	l.triggerIfScaleNowVisible(true)
	assert.True(t, l.Dirty())

	// The check alone never records the new state.
	assert.False(t, l.InScale())
	assert.NoError(t, l.updateCache(true, testBounds, false))
	assert.True(t, l.InScale())
	assert.False(t, l.Dirty())

	l.triggerIfScaleNowVisible(true)
	assert.False(t, l.Dirty())
}

func TestUpdateCacheCleanLayerIsNoop(t *testing.T) {
	l := newLayer(manifest.Entry{Range: 100, LabelField: -1})
	l.dirty = false

	assert.NoError(t, l.updateCache(true, testBounds, false))
	assert.Zero(t, l.cache.stats().Rebuilds)
	assert.False(t, l.InScale())
}

func TestVariantAndColorStrings(t *testing.T) {
	assert.Equal(t, "geometry", Geometry.String())
	assert.Equal(t, "labeled", LabeledGeometry.String())
	assert.Equal(t, "Variant(7)", Variant(7).String())
	assert.Equal(t, "#55a0ff", Color{85, 160, 255}.String())
}

func TestBoundsIntersects(t *testing.T) {
	b := Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 10}

	assert.True(t, b.Intersects(Bounds{MinLon: 9, MaxLon: 20, MinLat: 9, MaxLat: 20}))
	assert.True(t, b.Intersects(Bounds{MinLon: 10, MaxLon: 10, MinLat: 5, MaxLat: 5}))
	assert.False(t, b.Intersects(Bounds{MinLon: 11, MaxLon: 20, MinLat: 0, MaxLat: 10}))
	assert.False(t, b.Intersects(Bounds{MinLon: -0.00005, MaxLon: -0.00005, MinLat: 5, MaxLat: 5}))
}
