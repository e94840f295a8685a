// Package topology manages the overlay layers drawn on top of a moving map.
//
// A Store loads up to MaxLayers layers from a topology manifest. Each layer
// is backed by a geometry file and is only drawn while the map scale is
// within the layer's threshold. The store keeps a per-layer cache of the
// shapes inside the active bounds and refreshes those caches incrementally:
// every ScanVisibility call performs at most one full rebuild unless forced,
// and repeated calls converge on a fully fresh store.
//
// All mutation happens under an exclusive lock; Draw takes a shared lock, so
// renderers on other goroutines never see a partially loaded store.
//
// Example:
//
//	store := topology.NewStore(topology.Options{
//	    Settings: cfg,
//	    Geometry: shapefiles,
//	})
//	store.Open()
//	defer store.Close()
//
//	store.TriggerUpdateCaches(viewport)
//	for store.ScanVisibility(viewport, viewport.Bounds(), false) {
//	    // one layer rebuilt per call
//	}
//	store.Draw(renderer)
package topology
