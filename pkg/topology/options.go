package topology

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/beetlebugorg/topo/internal/logging"
	"github.com/beetlebugorg/topo/internal/manifest"
)

// MaxLayers is the default store capacity.
const MaxLayers = 20

// LoadingMessage is shown through Progress when Open starts.
const LoadingMessage = "Loading Topology File..."

// Options configures a Store.
type Options struct {
	// Settings locates the manifest. Nil leaves the store empty on Open.
	Settings Settings

	// Geometry opens layer geometry. Nil yields layers without shapes.
	Geometry GeometryLoader

	// Icons loads layer icons. Nil leaves every layer without an icon.
	Icons IconLoader

	// Progress receives LoadingMessage at the start of Open. Optional.
	Progress Progress

	// Logger receives load, unload and failure diagnostics.
	// Default: info level JSON on stderr.
	Logger *zerolog.Logger

	// OpenManifest opens a manifest for reading.
	// Default: manifest.Open, which also reads from inside map archives.
	OpenManifest func(path string) (ManifestReader, error)

	// InScale decides whether a layer threshold is in scale for a viewport
	// scale. Viewports implementing ScaleChecker override it.
	// Default: scale <= threshold.
	InScale func(scale, threshold float64) bool

	// MaxLayers caps the number of layers loaded.
	// Default: MaxLayers
	MaxLayers int
}

// ManifestReader is a line source over one manifest.
type ManifestReader interface {
	manifest.LineReader
	Close() error
}

// DefaultOptions returns options with defaults and no collaborators.
func DefaultOptions() Options {
	return Options{
		Logger:       newDefaultLogger(),
		OpenManifest: openManifest,
		InScale:      defaultInScale,
		MaxLayers:    MaxLayers,
	}
}

// newDefaultLogger builds the logger used when Options.Logger is nil.
var newDefaultLogger = func() *zerolog.Logger {
	log := logging.New(os.Stderr, "info")
	return &log
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = newDefaultLogger()
	}
	if o.OpenManifest == nil {
		o.OpenManifest = openManifest
	}
	if o.InScale == nil {
		o.InScale = defaultInScale
	}
	if o.MaxLayers <= 0 {
		o.MaxLayers = MaxLayers
	}
	return o
}

func openManifest(path string) (ManifestReader, error) {
	return manifest.Open(path)
}

func defaultInScale(scale, threshold float64) bool {
	return scale <= threshold
}
