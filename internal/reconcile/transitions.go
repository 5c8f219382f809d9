package reconcile

import "github.com/pders01/rdash/internal/download"

// PatchAction says how much work a patch with a given status needs.
type PatchAction int

const (
	// PatchOnly re-renders the affected row in place.
	PatchOnly PatchAction = iota
	// PatchAndRefresh also refetches the list, because the row's shape
	// (controls, selection affordance) changes with the status.
	PatchAndRefresh
)

func (a PatchAction) String() string {
	if a == PatchAndRefresh {
		return "patch+refresh"
	}
	return "patch"
}

var transitions = map[download.Status]PatchAction{
	download.StatusPending:           PatchOnly,
	download.StatusProcessing:        PatchOnly,
	download.StatusDownloading:       PatchOnly,
	download.StatusAwaitingSelection: PatchAndRefresh,
	download.StatusSubtitles:         PatchAndRefresh,
	download.StatusComplete:          PatchAndRefresh,
	download.StatusError:             PatchAndRefresh,
}

// ActionFor looks a status up in the transition table. Unknown statuses are
// patched in place.
func ActionFor(s download.Status) PatchAction {
	if a, ok := transitions[s]; ok {
		return a
	}
	return PatchOnly
}
