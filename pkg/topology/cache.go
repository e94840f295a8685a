package topology

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// CachedShape is a decoded record kept in a layer's cache.
type CachedShape struct {
	Index int
	Shape Shape
	Label string // label text for labeled layers
}

// CacheStats holds per-layer cache metrics.
type CacheStats struct {
	Shapes   int // Shapes currently cached
	Records  int // Records in the geometry file
	Rebuilds int // Full rebuilds performed
	Flushes  int // Flushes because the layer went out of scale
}

// shapeCache keeps the decoded records of one geometry file that intersect
// the last rebuild bounds.
type shapeCache struct {
	file    ShapeFile
	index   *rtreego.Rtree // built on first rebuild
	entries map[int]CachedShape

	rebuilds int
	flushes  int
}

// indexedRecord wraps a record extent for R-tree storage.
type indexedRecord struct {
	index  int
	bounds Bounds
}

// Bounds implements rtreego.Spatial interface.
func (r *indexedRecord) Bounds() rtreego.Rect {
	return r.bounds.rect()
}

func newShapeCache(file ShapeFile) *shapeCache {
	return &shapeCache{
		file:    file,
		entries: make(map[int]CachedShape),
	}
}

// buildIndex creates the R-tree over all record extents.
func (c *shapeCache) buildIndex() {
	// 2D, min=25 children, max=50 children
	c.index = rtreego.NewTree(2, 25, 50)
	for i := 0; i < c.file.Len(); i++ {
		c.index.Insert(&indexedRecord{index: i, bounds: c.file.Extent(i)})
	}
}

// rebuild makes the cache hold exactly the records intersecting bounds.
// Records already cached are kept; records that fail to decode are left out
// and reported together.
func (c *shapeCache) rebuild(bounds Bounds, labelField int) error {
	c.rebuilds++
	if c.file == nil {
		return nil
	}
	if c.index == nil {
		c.buildIndex()
	}

	next := make(map[int]CachedShape)
	var errs []error

	for _, spatial := range c.index.SearchIntersect(bounds.rect()) {
		i := spatial.(*indexedRecord).index
		// the index pads point and line extents
		if !bounds.Intersects(c.file.Extent(i)) {
			continue
		}
		if cached, ok := c.entries[i]; ok {
			next[i] = cached
			continue
		}

		shape, err := c.file.Shape(i)
		if err != nil {
			errs = append(errs, fmt.Errorf("read shape %d: %w", i, err))
			continue
		}

		entry := CachedShape{Index: i, Shape: shape}
		if labelField >= 0 {
			label, err := c.file.Field(i, labelField)
			if err != nil {
				errs = append(errs, fmt.Errorf("read label of shape %d: %w", i, err))
			}
			entry.Label = label
		}
		next[i] = entry
	}

	c.entries = next
	return errors.Join(errs...)
}

// flush drops all cached shapes but keeps the file and index.
func (c *shapeCache) flush() {
	if len(c.entries) > 0 {
		c.entries = make(map[int]CachedShape)
	}
	c.flushes++
}

// close drops everything and closes the file.
func (c *shapeCache) close() error {
	c.entries = make(map[int]CachedShape)
	c.index = nil
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// shapes returns the cached shapes in record order.
func (c *shapeCache) shapes() []CachedShape {
	out := make([]CachedShape, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}

func (c *shapeCache) stats() CacheStats {
	records := 0
	if c.file != nil {
		records = c.file.Len()
	}
	return CacheStats{
		Shapes:   len(c.entries),
		Records:  records,
		Rebuilds: c.rebuilds,
		Flushes:  c.flushes,
	}
}
