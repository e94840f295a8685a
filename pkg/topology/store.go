package topology

import (
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/beetlebugorg/topo/internal/manifest"
)

// Store owns the ordered overlay layers loaded from a topology manifest.
//
// Layers are kept in manifest order, which is also draw order. Open, Close,
// TriggerUpdateCaches and ScanVisibility take the exclusive lock; Draw and
// the accessors take the shared lock.
type Store struct {
	mu     sync.RWMutex
	layers []*Layer

	opts  Options
	log   zerolog.Logger
	icons *iconCache
}

// NewStore creates an empty store. Call Open to load layers.
//
// Example:
//
//	store := topology.NewStore(topology.Options{
//	    Settings: cfg,
//	    Geometry: shapefiles,
//	    Icons:    icons,
//	})
//	store.Open()
//	defer store.Close()
func NewStore(opts Options) *Store {
	opts = opts.withDefaults()
	s := &Store{
		opts: opts,
		log:  opts.Logger.With().Str("component", "topology").Logger(),
	}
	if opts.Icons != nil {
		s.icons = newIconCache(opts.Icons)
	}
	return s
}

// Open replaces the store contents with the layers of the configured
// manifest.
//
// The manifest is the topology file setting, or topology.tpl inside the map
// archive setting when that is blank; layer paths are relative to the
// manifest's directory (or the archive). When neither is set, or the
// manifest cannot be opened, the store is left empty. No error is returned:
// failures are logged and recovered at the narrowest scope.
func (s *Store) Open() {
	s.log.Info().Msg("OpenTopology")

	if s.opts.Progress != nil {
		s.opts.Progress.Start(LoadingMessage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()

	path, dir, ok := s.resolveManifest()
	if !ok {
		s.log.Debug().Msg("no topology file configured")
		return
	}

	r, err := s.opts.OpenManifest(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("No topology file")
		return
	}
	defer r.Close()

	entries, err := manifest.Parse(r, dir, s.opts.MaxLayers)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Int("parsed", len(entries)).
			Msg("topology manifest read failed, keeping parsed layers")
	}

	layers := make([]*Layer, 0, len(entries))
	for _, e := range entries {
		layers = append(layers, s.buildLayer(e))
	}
	s.layers = layers

	s.log.Info().Str("path", path).Int("layers", len(layers)).Msg("topology loaded")
}

// resolveManifest returns the manifest path and the directory layer paths
// are relative to.
func (s *Store) resolveManifest() (path, dir string, ok bool) {
	if s.opts.Settings == nil {
		return "", "", false
	}

	if file := s.opts.Settings.TopologyFile(); file != "" {
		return file, filepath.Dir(file), true
	}

	archive := s.opts.Settings.MapFile()
	if archive == "" {
		return "", "", false
	}
	return filepath.Join(archive, manifest.FileName), archive, true
}

// buildLayer constructs one layer, loading its icon and opening its geometry.
// Neither failure prevents the layer from being added.
func (s *Store) buildLayer(e manifest.Entry) *Layer {
	l := newLayer(e)

	if e.Icon != 0 && s.icons != nil {
		icon, err := s.icons.load(e.Icon)
		if err != nil {
			s.log.Warn().Err(err).Int("icon", e.Icon).Str("path", e.Path).Msg("layer icon not loaded")
		} else {
			l.icon = icon
		}
	}

	if s.opts.Geometry != nil {
		file, err := s.opts.Geometry.OpenShapes(e.Path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", e.Path).Msg("layer geometry not opened")
		} else {
			l.cache = newShapeCache(file)
		}
	}

	return l
}

// Close releases every layer and its cache, leaving the store empty.
// Closing an empty store does nothing.
func (s *Store) Close() {
	s.log.Info().Msg("CloseTopology")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
}

func (s *Store) releaseLocked() {
	for _, l := range s.layers {
		if err := l.release(); err != nil {
			s.log.Warn().Err(err).Str("path", l.path).Msg("layer geometry close failed")
		}
	}
	s.layers = nil
}

// Draw hands every layer, in order, to r under the shared lock. Caches are
// passed as they are, fresh or not.
func (s *Store) Draw(r Renderer) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.layers {
		r.DrawLayer(l.view())
	}
}

// Len returns the number of loaded layers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers)
}

// Layers returns a snapshot of every layer in draw order.
func (s *Store) Layers() []LayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LayerInfo, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.info()
	}
	return out
}
