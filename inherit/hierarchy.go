package inherit

import "sort"

// Hierarchy is the caller supplied base class mapping. Schema generators
// flatten inheritance away, so the subclass -> direct base edges have to be
// provided explicitly alongside the document.
type Hierarchy struct {
	base map[string]string
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{base: make(map[string]string)}
}

// Set records that child derives directly from base. Setting a child twice
// replaces the earlier edge.
func (h *Hierarchy) Set(child, base string) {
	h.base[child] = base
}

// Base returns the direct base of child, if child is a known subclass.
func (h *Hierarchy) Base(child string) (string, bool) {
	b, ok := h.base[child]
	return b, ok
}

func (h *Hierarchy) Len() int {
	return len(h.base)
}

// Children returns every subclass name, sorted.
func (h *Hierarchy) Children() []string {
	cs := make([]string, 0, len(h.base))
	for c := range h.base {
		cs = append(cs, c)
	}
	sort.Strings(cs)
	return cs
}

// Bases returns every distinct base name, sorted.
func (h *Hierarchy) Bases() []string {
	seen := make(map[string]struct{}, len(h.base))
	bs := make([]string, 0, len(h.base))
	for _, b := range h.base {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		bs = append(bs, b)
	}
	sort.Strings(bs)
	return bs
}

// IsSubclass reports whether name appears as a child in the mapping.
func (h *Hierarchy) IsSubclass(name string) bool {
	_, ok := h.base[name]
	return ok
}

// depth returns the number of ancestor hops from child to the top of its
// chain, or a CycleError if following base edges revisits a class.
func (h *Hierarchy) depth(child string) (int, error) {
	d := 0
	path := []string{child}
	seen := map[string]int{child: 0}
	cur := child
	for {
		next, ok := h.base[cur]
		if !ok {
			return d, nil
		}
		d++
		if at, ok := seen[next]; ok {
			return 0, &CycleError{Cycle: append(path[at:], next)}
		}
		seen[next] = len(path)
		path = append(path, next)
		cur = next
	}
}

// TopoOrder returns the subclasses in dependency order, classes nearer the
// root first. Differentials computed in this order only ever look at a
// parent that has not itself been rewritten yet.
func (h *Hierarchy) TopoOrder() ([]string, error) {
	type entry struct {
		name  string
		depth int
	}
	es := make([]entry, 0, len(h.base))
	for _, c := range h.Children() {
		d, err := h.depth(c)
		if err != nil {
			return nil, err
		}
		es = append(es, entry{name: c, depth: d})
	}
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].depth < es[j].depth
	})
	order := make([]string, len(es))
	for i, e := range es {
		order[i] = e.name
	}
	return order, nil
}
