package indexer

import "sync/atomic"

// Handle holds the name of the live index for this process.
// It is set only after a generation was promoted, so readers never see a partial build.
type Handle struct {
	name atomic.Pointer[string]
}

// NewHandle creates an empty handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Ready reports whether an index is live.
func (h *Handle) Ready() bool {
	return h.name.Load() != nil
}

// Name returns the live index name.
func (h *Handle) Name() (string, bool) {
	p := h.name.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

func (h *Handle) set(name string) {
	h.name.Store(&name)
}
