package logevent

// Marker is a named tag attached to an event. Parents form a DAG.
// Markers are immutable after construction so they can be shared
// between goroutines without locking.
type Marker struct {
	name    string
	parents []*Marker
}

// NewMarker returns a new marker with given parents.
// Nil parents are ignored.
func NewMarker(name string, parents ...*Marker) *Marker {
	m := &Marker{name: name}
	for _, p := range parents {
		if p != nil {
			m.parents = append(m.parents, p)
		}
	}
	return m
}

// WithParents returns a copy of m with extra parents.
func (m *Marker) WithParents(parents ...*Marker) *Marker {
	return NewMarker(m.name, append(m.parents[:len(m.parents):len(m.parents)], parents...)...)
}

// Name returns marker name.
func (m *Marker) Name() string { return m.name }

// Parents returns marker parents. The slice must not be modified.
func (m *Marker) Parents() []*Marker { return m.parents }

// IsInstanceOf reports whether m or any of its ancestors is named name.
func (m *Marker) IsInstanceOf(name string) bool {
	if m == nil {
		return false
	}
	if m.name == name {
		return true
	}
	if len(m.parents) == 0 {
		return false
	}
	var (
		stackBuf [16]*Marker
		stack    = append(stackBuf[:0], m.parents...)
		visited  map[*Marker]bool
	)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.name == name {
			return true
		}
		if len(p.parents) == 0 {
			continue
		}
		if visited == nil {
			visited = make(map[*Marker]bool)
		}
		if visited[p] {
			continue
		}
		visited[p] = true
		stack = append(stack, p.parents...)
	}
	return false
}

// AppendText appends marker name followed by its parents, recursively:
// "name[ parent1[ grand ], parent2 ]".
func (m *Marker) AppendText(dst []byte) []byte {
	if m == nil {
		return dst
	}
	dst = append(dst, m.name...)
	if len(m.parents) > 0 {
		dst = appendParents(dst, m.parents)
	}
	return dst
}

func appendParents(dst []byte, parents []*Marker) []byte {
	dst = append(dst, "[ "...)
	for i, p := range parents {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, p.name...)
		if len(p.parents) > 0 {
			dst = appendParents(dst, p.parents)
		}
	}
	return append(dst, " ]"...)
}

func (m *Marker) String() string {
	return string(m.AppendText(nil))
}
