package topology

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSettings struct {
	topologyFile string
	mapFile      string
}

func (f fakeSettings) TopologyFile() string { return f.topologyFile }
func (f fakeSettings) MapFile() string      { return f.mapFile }

type memRecord struct {
	extent Bounds
	label  string
	err    error
}

// memShapeFile is an in-memory geometry file. Shapes are the record names.
type memShapeFile struct {
	mu      sync.Mutex
	records []memRecord
	reads   map[int]int
	closed  bool
}

func newMemShapeFile(records ...memRecord) *memShapeFile {
	return &memShapeFile{records: records, reads: make(map[int]int)}
}

func (f *memShapeFile) Len() int             { return len(f.records) }
func (f *memShapeFile) Extent(i int) Bounds { return f.records[i].extent }

func (f *memShapeFile) Shape(i int) (Shape, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads[i]++
	if err := f.records[i].err; err != nil {
		return nil, err
	}
	return fmt.Sprintf("shape-%d", i), nil
}

func (f *memShapeFile) Field(i, field int) (string, error) {
	return fmt.Sprintf("%s/%d", f.records[i].label, field), nil
}

func (f *memShapeFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *memShapeFile) readCount(i int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[i]
}

func (f *memShapeFile) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// memGeometry opens files by path, building a default one for unknown paths
// unless strict is set.
type memGeometry struct {
	mu     sync.Mutex
	files  map[string]*memShapeFile
	opened []string
	strict bool
}

func newMemGeometry() *memGeometry {
	return &memGeometry{files: make(map[string]*memShapeFile)}
}

func (g *memGeometry) OpenShapes(path string) (ShapeFile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opened = append(g.opened, path)

	f, ok := g.files[path]
	if !ok {
		if g.strict {
			return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
		}
		f = newMemShapeFile(
			memRecord{extent: Bounds{MinLon: 1, MaxLon: 2, MinLat: 1, MaxLat: 2}, label: "a"},
			memRecord{extent: Bounds{MinLon: 5, MaxLon: 5, MinLat: 5, MaxLat: 5}, label: "b"},
			memRecord{extent: Bounds{MinLon: 50, MaxLon: 51, MinLat: 50, MaxLat: 51}, label: "far"},
		)
		g.files[path] = f
	}
	// reopening a closed file behaves like a fresh open
	f.mu.Lock()
	f.closed = false
	f.mu.Unlock()
	return f, nil
}

func (g *memGeometry) file(path string) *memShapeFile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.files[path]
}

type fakeIcons struct {
	mu    sync.Mutex
	calls map[int]int
	fail  map[int]bool
}

func newFakeIcons(failing ...int) *fakeIcons {
	f := &fakeIcons{calls: make(map[int]int), fail: make(map[int]bool)}
	for _, id := range failing {
		f.fail[id] = true
	}
	return f
}

func (f *fakeIcons) LoadIcon(id int) (Icon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if f.fail[id] {
		return nil, errors.New("no such icon")
	}
	return fmt.Sprintf("icon-%d", id), nil
}

type fakeProgress struct {
	messages []string
}

func (p *fakeProgress) Start(message string) {
	p.messages = append(p.messages, message)
}

type fakeViewport struct {
	scale  float64
	bounds Bounds
}

func (v fakeViewport) Scale() float64 { return v.scale }
func (v fakeViewport) Bounds() Bounds { return v.bounds }

// checkingViewport decides in-scale itself.
type checkingViewport struct {
	fakeViewport
	visible func(threshold float64) bool
}

func (v checkingViewport) InScale(threshold float64) bool { return v.visible(threshold) }

type recordingRenderer struct {
	views []LayerView
}

func (r *recordingRenderer) DrawLayer(view LayerView) {
	r.views = append(r.views, view)
}

var testBounds = Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 10}

// nearView is zoomed in far enough for every test layer.
var nearView = fakeViewport{scale: 10, bounds: testBounds}

func nopLogger() *zerolog.Logger {
	log := zerolog.Nop()
	return &log
}

// writeManifest writes lines to dir/topology.tpl and returns its path.
func writeManifest(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "topology.tpl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// newTestStore opens a store over a manifest with the given lines.
func newTestStore(t *testing.T, geometry GeometryLoader, lines ...string) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := writeManifest(t, dir, lines...)

	store := NewStore(Options{
		Settings: fakeSettings{topologyFile: path},
		Geometry: geometry,
		Logger:   nopLogger(),
	})
	store.Open()
	t.Cleanup(store.Close)
	return store, dir
}
