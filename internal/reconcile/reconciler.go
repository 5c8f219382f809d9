package reconcile

import (
	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/download"
)

// Reconciler is the per-session owner of State and the open Selection.
// It is not safe for concurrent use; callers drive it from one loop.
type Reconciler struct {
	state     State
	selection *Selection
}

func New() *Reconciler {
	return &Reconciler{state: NewState()}
}

func (r *Reconciler) State() State {
	return r.state
}

// Dispatch applies ev and returns the effects the caller must carry out.
func (r *Reconciler) Dispatch(ev Event) Effects {
	next, eff := Apply(r.state, ev)
	r.state = next

	if eff.Dropped != nil {
		fields := map[string]interface{}{"error": eff.Dropped}
		if m, ok := ev.(Malformed); ok && m.Event != "" {
			fields["event"] = m.Event
		}
		debuglog.WithFields(fields).Warnf("dropped pushed event")
	}

	if r.selection != nil && eff.RenderDownloads && !r.state.Has(r.selection.DownloadID()) {
		debuglog.Infof("download %s left the list, closing file selection", r.selection.DownloadID())
		r.selection = nil
		eff.SelectionClosed = true
	}

	return eff
}

// OpenSelection starts a file-selection session for id, replacing any
// previous one.
func (r *Reconciler) OpenSelection(id download.ID) *Selection {
	r.selection = NewSelection(id)
	return r.selection
}

func (r *Reconciler) CloseSelection() {
	r.selection = nil
}

// Selection returns the open selection, or nil.
func (r *Reconciler) Selection() *Selection {
	return r.selection
}
