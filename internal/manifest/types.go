package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FileName is the descriptor file looked up in a package directory.
const FileName = "package.json"

// Manifest holds the package.json fields resolution cares about.
type Manifest struct {
	Name             string       `json:"name,omitempty"`
	Version          string       `json:"version,omitempty"`
	Dependencies     Dependencies `json:"dependencies,omitempty"`
	PeerDependencies Dependencies `json:"peerDependencies,omitempty"`
	DevDependencies  Dependencies `json:"devDependencies,omitempty"`
}

// Dependency is a single name → version constraint pair.
type Dependency struct {
	Name       string
	Constraint string
}

// Dependencies is a dependency map in the order its keys appear in the file.
type Dependencies []Dependency

// Names returns the dependency names in file order.
func (d Dependencies) Names() []string {
	names := make([]string, 0, len(d))
	for _, dep := range d {
		names = append(names, dep.Name)
	}
	return names
}

// Get returns the constraint declared for name.
func (d Dependencies) Get(name string) (string, bool) {
	for _, dep := range d {
		if dep.Name == name {
			return dep.Constraint, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a JSON object while keeping key order. A repeated key
// keeps its first position and takes the last value, as JSON.parse does.
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dependency map must be an object, got %v", tok)
	}

	var deps Dependencies
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected dependency key %v", tok)
		}

		var constraint string
		if err := dec.Decode(&constraint); err != nil {
			return fmt.Errorf("dependency %q: constraint must be a string: %w", name, err)
		}

		if i, seen := index[name]; seen {
			deps[i].Constraint = constraint
			continue
		}
		index[name] = len(deps)
		deps = append(deps, Dependency{Name: name, Constraint: constraint})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = deps
	return nil
}

// MarshalJSON writes the map back out in the same key order.
func (d Dependencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dep := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(dep.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(dep.Constraint)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
