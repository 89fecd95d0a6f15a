package widget

// TabState tracks which tab is active, which tab panels currently
// exist, and whether the tab scaffold has been built. All operations
// are synchronous and total; keeping indices in range is the caller's
// job (the orchestrator clamps).
type TabState struct {
	active     int
	rendered   map[int]bool
	scaffolded bool
}

// NewTabState creates an empty TabState with tab 0 active.
func NewTabState() *TabState {
	return &TabState{rendered: make(map[int]bool)}
}

// Active returns the active tab index.
func (t *TabState) Active() int { return t.active }

// SetActive records the active tab index.
func (t *TabState) SetActive(i int) { t.active = i }

// IsScaffolded reports whether the tab scaffold has been built.
func (t *TabState) IsScaffolded() bool { return t.scaffolded }

// SetScaffolded records whether the scaffold exists.
func (t *TabState) SetScaffolded(v bool) { t.scaffolded = v }

// IsRendered reports whether the panel for tab i currently exists.
func (t *TabState) IsRendered(i int) bool { return t.rendered[i] }

// MarkRendered records that the panel for tab i exists.
func (t *TabState) MarkRendered(i int) { t.rendered[i] = true }

// Reset clears the rendered set and the scaffold flag. The active
// index is deliberately left alone; the orchestrator clamps it against
// the new file count on reconfiguration.
func (t *TabState) Reset() {
	t.rendered = make(map[int]bool)
	t.scaffolded = false
}
