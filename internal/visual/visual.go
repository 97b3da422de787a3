// Package visual holds the render-side resources of the scene: flat part
// lists for swappable cosmetic subtrees and a registry that guarantees every
// GPU-resident handle is released exactly once.
package visual

import (
	"image/color"
	"sort"
	"sync"

	"cogentcore.org/core/math32"
)

// Shape is the primitive a part is drawn with.
type Shape uint8

const (
	ShapeSphere Shape = iota
	ShapeCone
	ShapeOcta
	ShapeDisc
	ShapeWing
)

// Part is one piece of a subtree, positioned relative to the subtree root.
type Part struct {
	Name     string
	Shape    Shape
	Offset   math32.Vector3
	Scale    math32.Vector3
	Color    color.NRGBA
	Emissive bool
}

// Handle is a tracked render resource.
type Handle struct {
	ID    uint64
	Label string

	reg     *Registry
	release func()
	done    bool
}

// Released reports whether the handle has been released.
func (h *Handle) Released() bool {
	h.reg.mu.Lock()
	defer h.reg.mu.Unlock()
	return h.done
}

// Release frees the resource. Repeated calls are no-ops.
func (h *Handle) Release() {
	h.reg.releaseHandle(h)
}

// Registry tracks live handles.
type Registry struct {
	mu       sync.Mutex
	next     uint64
	live     map[uint64]*Handle
	released uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: map[uint64]*Handle{}}
}

// Acquire registers a resource. release, when non-nil, runs once when the
// handle is released.
func (r *Registry) Acquire(label string, release func()) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	h := &Handle{ID: r.next, Label: label, reg: r, release: release}
	r.live[h.ID] = h
	return h
}

func (r *Registry) releaseHandle(h *Handle) {
	r.mu.Lock()
	if h.done {
		r.mu.Unlock()
		return
	}
	h.done = true
	delete(r.live, h.ID)
	r.released++
	fn := h.release
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Live is the number of unreleased handles.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Released is the total number of releases performed.
func (r *Registry) Released() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// Labels lists the labels of live handles in acquisition order.
func (r *Registry) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint64, 0, len(r.live))
	for id := range r.live {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = r.live[id].Label
	}
	return out
}

// ReleaseAll releases every live handle and returns how many were freed.
func (r *Registry) ReleaseAll() int {
	r.mu.Lock()
	handles := make([]*Handle, 0, len(r.live))
	for _, h := range r.live {
		handles = append(handles, h)
	}
	r.mu.Unlock()
	sort.Slice(handles, func(i, j int) bool { return handles[i].ID > handles[j].ID })
	for _, h := range handles {
		h.Release()
	}
	return len(handles)
}

// Subtree is a swappable visual group such as the avatar or companion.
type Subtree struct {
	Kind  string
	Parts []Part

	handles []*Handle
}

// Build creates a subtree and registers one geometry and one material
// handle per part.
func Build(reg *Registry, kind string, parts []Part) *Subtree {
	st := &Subtree{Kind: kind, Parts: parts}
	for _, p := range parts {
		st.handles = append(st.handles,
			reg.Acquire(kind+"/"+p.Name+"/geometry", nil),
			reg.Acquire(kind+"/"+p.Name+"/material", nil),
		)
	}
	return st
}

// Part finds a part by name.
func (s *Subtree) Part(name string) (Part, bool) {
	for _, p := range s.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// Attach ties an extra handle to the subtree lifetime.
func (s *Subtree) Attach(h *Handle) { s.handles = append(s.handles, h) }

// Handles exposes the handles owned by the subtree.
func (s *Subtree) Handles() []*Handle { return s.handles }

// Destroy releases every handle owned by the subtree. It is safe on nil.
func (s *Subtree) Destroy() {
	if s == nil {
		return
	}
	for _, h := range s.handles {
		h.Release()
	}
}
