package workspace

import (
	"errors"

	"github.com/tmclane/bspwm/internal/bsp"
)

// ErrLastWorkspace is returned by Delete when the registry holds only one
// workspace; deleting it is a documented no-op, not a failure.
var ErrLastWorkspace = errors.New("workspace: cannot delete the last workspace")

// Registry is the ordered collection of workspaces multiplexed over a
// single screen, plus the process-wide set of windows the core has
// unmapped itself.
type Registry struct {
	workspaces []*Workspace
	current    int
	pending    map[bsp.Window]struct{}
}

// NewRegistry returns a registry containing exactly one empty workspace, as
// required at startup.
func NewRegistry() *Registry {
	return &Registry{
		workspaces: []*Workspace{New()},
		pending:    make(map[bsp.Window]struct{}),
	}
}

// Len returns the number of workspaces; always >= 1.
func (r *Registry) Len() int { return len(r.workspaces) }

// CurrentIndex returns the index of the current workspace, in [0, Len()).
func (r *Registry) CurrentIndex() int { return r.current }

// Current returns the current workspace.
func (r *Registry) Current() *Workspace { return r.workspaces[r.current] }

// At returns the workspace at index i.
func (r *Registry) At(i int) *Workspace { return r.workspaces[i] }

// Create appends a new empty workspace and makes it current, returning its
// index.
func (r *Registry) Create() int {
	r.workspaces = append(r.workspaces, New())
	r.current = len(r.workspaces) - 1
	return r.current
}

// Delete removes the current workspace and switches to the previous index
// (wrapping to 0 if the deleted workspace was index 0). It returns the
// windows that belonged to the deleted workspace, which the caller is
// expected to destroy at the protocol level; the workspace itself is
// already dropped when Delete returns.
// Delete returns ErrLastWorkspace without effect if only one workspace
// remains.
func (r *Registry) Delete() ([]bsp.Window, error) {
	if len(r.workspaces) == 1 {
		return nil, ErrLastWorkspace
	}
	deleted := r.current
	windows := r.workspaces[deleted].Tree().Leaves()

	r.workspaces = append(r.workspaces[:deleted], r.workspaces[deleted+1:]...)
	if deleted == 0 {
		r.current = 0
	} else {
		r.current = deleted - 1
	}
	return windows, nil
}

// CycleResult describes the consequence of switching the current workspace:
// which windows must be unmapped (present in the old workspace but not the
// new one) and which must be mapped (the reverse), plus the workspace now
// current.
type CycleResult struct {
	Workspace *Workspace
	Unmap     []bsp.Window
	Map       []bsp.Window
}

// Cycle advances the current index by delta (typically +1 or -1), wrapping
// at either end. Windows exclusive to the old workspace are added to the
// pending-unmap set and returned for unmapping; windows exclusive to the
// new workspace are returned for mapping. Callers must call ClearPendingAll
// with the mapped windows once the map operations succeed.
func (r *Registry) Cycle(delta int) CycleResult {
	oldWindows := r.Current().Tree().Leaves()

	n := len(r.workspaces)
	r.current = ((r.current+delta)%n + n) % n

	next := r.Current()
	newWindows := next.Tree().Leaves()

	r.AddPending(oldWindows)

	oldSet := toSet(oldWindows)
	newSet := toSet(newWindows)

	var unmap, mp []bsp.Window
	for _, w := range oldWindows {
		if _, ok := newSet[w]; !ok {
			unmap = append(unmap, w)
		}
	}
	for _, w := range newWindows {
		if _, ok := oldSet[w]; !ok {
			mp = append(mp, w)
		}
	}

	return CycleResult{Workspace: next, Unmap: unmap, Map: mp}
}

func toSet(ws []bsp.Window) map[bsp.Window]struct{} {
	s := make(map[bsp.Window]struct{}, len(ws))
	for _, w := range ws {
		s[w] = struct{}{}
	}
	return s
}

// IsPending reports whether w is in the pending-unmap set.
func (r *Registry) IsPending(w bsp.Window) bool {
	_, ok := r.pending[w]
	return ok
}

// AddPending records windows as having been unmapped by the core itself,
// so a subsequent unmap-notify for them is not mistaken for a client-driven
// close.
func (r *Registry) AddPending(ws []bsp.Window) {
	for _, w := range ws {
		r.pending[w] = struct{}{}
	}
}

// ClearPending removes w from the pending-unmap set and reports whether it
// had been present.
func (r *Registry) ClearPending(w bsp.Window) bool {
	_, ok := r.pending[w]
	delete(r.pending, w)
	return ok
}

// ClearPendingAll removes every window in ws from the pending-unmap set.
func (r *Registry) ClearPendingAll(ws []bsp.Window) {
	for _, w := range ws {
		delete(r.pending, w)
	}
}

// FindWorkspace returns the workspace containing win, and its index, if
// any. The union of leaves across all workspaces never has duplicates, so
// at most one workspace can match.
func (r *Registry) FindWorkspace(win bsp.Window) (*Workspace, int, bool) {
	for i, ws := range r.workspaces {
		if ws.Tree().Contains(win) {
			return ws, i, true
		}
	}
	return nil, -1, false
}
