package domain

import "slices"

// Workspace is everything declared in one configuration file.
type Workspace struct {
	Path      string
	Source    []byte
	Types     *TypeRegistry
	Injectors []*Tree
}

// Injector returns the tree generated for the named injector interface.
func (w *Workspace) Injector(name string) (*Tree, bool) {
	idx := slices.IndexFunc(w.Injectors, func(t *Tree) bool {
		return t.Name() == name || SimpleName(t.Name()) == name
	})
	if idx < 0 {
		return nil, false
	}
	return w.Injectors[idx], true
}
