package linker

import (
	"slices"
)

// EntryKind classifies an entry of the dependency install directory.
type EntryKind int

const (
	// KindMissing means nothing is installed under the name.
	KindMissing EntryKind = iota
	// KindRegular is a normally installed package.
	KindRegular
	// KindLinked is a symbolic link to a working copy.
	KindLinked
)

func (k EntryKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindRegular:
		return "regular"
	case KindLinked:
		return "linked"
	default:
		return "unknown"
	}
}

// Entry is the classification of one direct dependency.
type Entry struct {
	Name string
	Kind EntryKind
	// Path is where the install directory entry is expected.
	Path string
	// Target is the raw link target. Linked entries only.
	Target string
	// RealPath has every symlink resolved. Linked entries only.
	RealPath string
}

// Result is the outcome of one resolution pass. It is not modified after
// Resolve returns.
type Result struct {
	// Libs maps each linked library name to its real path.
	Libs map[string]string
	// Dependents lists, without duplicates, the names required by the linked
	// libraries' dependencies and peerDependencies. No name in Libs appears
	// here.
	Dependents []string
	// Entries holds one classification per direct dependency, in pass order.
	Entries []Entry
	// Contributors maps each dependent to the libraries that declared it.
	Contributors map[string][]string

	libOrder []string
	depIndex map[string]struct{}
}

func newResult() *Result {
	return &Result{
		Libs:         make(map[string]string),
		Contributors: make(map[string][]string),
		depIndex:     make(map[string]struct{}),
	}
}

// LibraryNames returns the linked library names in discovery order.
func (r *Result) LibraryNames() []string {
	return slices.Clone(r.libOrder)
}

// Roots returns the real paths of the linked libraries in discovery order.
func (r *Result) Roots() []string {
	roots := make([]string, 0, len(r.libOrder))
	for _, name := range r.libOrder {
		roots = append(roots, r.Libs[name])
	}
	return roots
}

// IsLinked reports whether name was classified as a linked library.
func (r *Result) IsLinked(name string) bool {
	_, ok := r.Libs[name]
	return ok
}

// IsDependent reports whether name is in Dependents.
func (r *Result) IsDependent(name string) bool {
	_, ok := r.depIndex[name]
	return ok
}

func (r *Result) addLib(name, realPath string) {
	r.Libs[name] = realPath
	r.libOrder = append(r.libOrder, name)
}

func (r *Result) addDependent(name, library string) {
	if _, ok := r.depIndex[name]; !ok {
		r.depIndex[name] = struct{}{}
		r.Dependents = append(r.Dependents, name)
	}
	if !slices.Contains(r.Contributors[name], library) {
		r.Contributors[name] = append(r.Contributors[name], library)
	}
}

// removeDependent drops name from Dependents. Absent names are a no-op.
func (r *Result) removeDependent(name string) bool {
	if _, ok := r.depIndex[name]; !ok {
		return false
	}
	delete(r.depIndex, name)
	delete(r.Contributors, name)
	r.Dependents = slices.DeleteFunc(r.Dependents, func(d string) bool { return d == name })
	return true
}
