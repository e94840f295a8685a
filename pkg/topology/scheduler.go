package topology

// fullRebuildsPerScan is how many dirty layers get a full cache rebuild in
// one unforced ScanVisibility call.
const fullRebuildsPerScan = 1

// TriggerUpdateCaches marks every layer dirty and re-checks whether any
// layer has moved into or out of scale. Use it to force a full refresh, for
// example after settings change.
func (s *Store) TriggerUpdateCaches(vp Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.layers {
		l.dirty = true
	}

	for _, l := range s.layers {
		l.triggerIfScaleNowVisible(s.inScale(vp, l.scaleThreshold))
	}
}

// ScanVisibility updates layer caches for the viewport and reports whether
// any layer is still dirty.
//
// Unless force is set, only the first dirty layer in draw order gets a full
// rebuild; the others are only purged. Each call therefore does bounded
// work, and calling it once per frame refreshes one more layer per frame
// until it returns false. With force every dirty layer is rebuilt.
//
// Example:
//
//	store.TriggerUpdateCaches(vp)
//	for store.ScanVisibility(vp, vp.Bounds(), false) {
//	    render()
//	}
func (s *Store) ScanVisibility(vp Viewport, bounds Bounds, force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	budget := fullRebuildsPerScan
	remaining := false

	for _, l := range s.layers {
		update := force || budget > 0
		if l.dirty && budget > 0 {
			budget--
		}

		if err := l.updateCache(s.inScale(vp, l.scaleThreshold), bounds, !update); err != nil {
			s.log.Warn().Err(err).Str("path", l.path).Msg("layer cache rebuilt with errors")
		}
		remaining = remaining || l.dirty
	}

	return remaining
}

// inScale applies the viewport's own scale check when it has one.
func (s *Store) inScale(vp Viewport, threshold float64) bool {
	if checker, ok := vp.(ScaleChecker); ok {
		return checker.InScale(threshold)
	}
	return s.opts.InScale(vp.Scale(), threshold)
}
