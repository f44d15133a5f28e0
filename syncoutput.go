package headlessterm

// BeginSynchronizedOutput starts a synchronized update (DEC private mode
// 2026, "BSU"). Buffer writes continue to apply immediately; only the
// dirty-tracking accessors (HasDirty, DirtyCells, ClearDirty) freeze their
// view until EndSynchronizedOutput, so a renderer polling between the two
// never draws a half-written frame.
func (t *Terminal) BeginSynchronizedOutput() {
	t.SetDecPrivateMode(2026, true)
}

// EndSynchronizedOutput closes a synchronized update ("ESU"), letting
// HasDirty/DirtyCells/ClearDirty see whatever accumulated while it was open.
func (t *Terminal) EndSynchronizedOutput() {
	t.SetDecPrivateMode(2026, false)
}

// SynchronizedOutputActive reports whether a BSU/ESU pair is currently open.
func (t *Terminal) SynchronizedOutputActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes&ModeSyncOutput != 0
}
