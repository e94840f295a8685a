package topology

// Settings supplies the configured manifest locations. Both methods return
// expanded local paths, or "" when unset.
type Settings interface {
	// TopologyFile is a manifest path configured directly.
	TopologyFile() string

	// MapFile is a map archive holding topology.tpl; used when TopologyFile is blank.
	MapFile() string
}

// Viewport is the caller's view of the map. It is read during a call and
// never retained.
type Viewport interface {
	// Scale is the current map scale, in the same unit as layer thresholds.
	Scale() float64

	// Bounds is the area currently visible.
	Bounds() Bounds
}

// ScaleChecker is implemented by viewports that decide themselves whether a
// layer threshold is in scale. It replaces Options.InScale for that viewport.
type ScaleChecker interface {
	InScale(threshold float64) bool
}

// Shape is one decoded geometry record. Its content is opaque to the store.
type Shape any

// ShapeFile gives indexed access to the records of one geometry file.
type ShapeFile interface {
	// Len returns the number of records.
	Len() int

	// Extent returns the bounding box of record i.
	Extent(i int) Bounds

	// Shape decodes record i.
	Shape(i int) (Shape, error)

	// Field returns attribute field of record i as text.
	Field(i, field int) (string, error)

	Close() error
}

// GeometryLoader opens geometry files named by manifest entries.
type GeometryLoader interface {
	OpenShapes(path string) (ShapeFile, error)
}

// Icon is a loaded layer icon. Its content is opaque to the store.
type Icon any

// IconLoader loads icons by numeric id.
type IconLoader interface {
	LoadIcon(id int) (Icon, error)
}

// Progress displays a status message while the store loads.
type Progress interface {
	Start(message string)
}

// Renderer paints layers. DrawLayer is called once per layer, in manifest
// order, while the store holds its shared lock; it must not call back into
// the store's mutating methods.
type Renderer interface {
	DrawLayer(view LayerView)
}
