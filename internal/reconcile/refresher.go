package reconcile

// Refresher coalesces refresh requests for one list: at most one fetch is
// in flight, and requests arriving meanwhile collapse into a single
// trailing fetch.
type Refresher struct {
	inFlight bool
	pending  bool
}

// Request reports whether the caller should start a fetch now.
func (r *Refresher) Request() bool {
	if r.inFlight {
		r.pending = true
		return false
	}
	r.inFlight = true
	return true
}

// Done marks the in-flight fetch as landed and reports whether the trailing
// fetch should start now.
func (r *Refresher) Done() bool {
	if r.pending {
		r.pending = false
		return true
	}
	r.inFlight = false
	return false
}

func (r *Refresher) InFlight() bool {
	return r.inFlight
}
