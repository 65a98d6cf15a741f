package diff

import (
	"fmt"

	"structgrade/internal/structure"
)

// Schema maps a mapping attribute name to the strategy used when both sides
// of that attribute hold sequences. Attributes without an entry compare
// positionally. Resolution is by attribute name, never by inspecting the
// accumulated path string.
type Schema map[string]Strategy

// ClassSchema is the fixed policy for class structures: inheritance lists
// compare as unordered sets, member collections match by key.
func ClassSchema() Schema {
	return Schema{
		"extends":      UnorderedSet,
		"implements":   UnorderedSet,
		"fields":       Fields,
		"methods":      Methods,
		"constructors": Constructors,
	}
}

// Differ compares structure trees and reports discrepancies as formatted
// strings. It holds no mutable state and is safe for concurrent use.
type Differ struct {
	schema Schema
}

func New(schema Schema) *Differ {
	return &Differ{schema: schema}
}

// NewClassDiffer returns a Differ carrying ClassSchema.
func NewClassDiffer() *Differ {
	return New(ClassSchema())
}

// Compare walks reference and candidate in lockstep and returns one line per
// discrepancy, prefixed with the path of the diverging node. An empty result
// means the trees are structurally equivalent.
func (d *Differ) Compare(path string, ref, cand structure.Value) []string {
	return d.compare(path, ref, cand, Positional)
}

// CompareClass compares two class structures under the root path
// "Class <name>".
func (d *Differ) CompareClass(name string, ref, cand structure.Value) []string {
	return d.Compare("Class "+name, ref, cand)
}

// CompareCorpora matches classes by name, reporting classes present on only
// one side and delegating matched pairs to CompareClass. Reference classes
// are visited in reference order, candidate-only classes in candidate order.
func (d *Differ) CompareCorpora(ref, cand *structure.Corpus) []string {
	var out []string
	for _, name := range ref.Names() {
		refClass, _ := ref.Class(name)
		candClass, ok := cand.Class(name)
		if !ok {
			out = append(out, "Missing class: "+name)
			continue
		}
		out = append(out, d.CompareClass(name, refClass, candClass)...)
	}
	for _, name := range cand.Names() {
		if _, ok := ref.Class(name); !ok {
			out = append(out, "Extra class: "+name)
		}
	}
	return out
}

func (d *Differ) compare(path string, ref, cand structure.Value, strat Strategy) []string {
	if ref.Kind() != cand.Kind() {
		return []string{fmt.Sprintf("%s - Type mismatch: expected %s, got %s", path, ref.Kind(), cand.Kind())}
	}

	switch ref.Kind() {
	case structure.KindMapping:
		return d.compareMappings(path, ref, cand)
	case structure.KindSequence:
		return strat.match(d, path, ref, cand)
	default:
		if !structure.Equal(ref, cand) {
			return []string{fmt.Sprintf("%s - Value mismatch: expected %s, got %s", path, ref.Format(), cand.Format())}
		}
		return nil
	}
}

func (d *Differ) compareMappings(path string, ref, cand structure.Value) []string {
	var out []string
	for _, key := range ref.Keys() {
		refVal, _ := ref.Get(key)
		candVal, ok := cand.Get(key)
		if !ok {
			out = append(out, fmt.Sprintf("%s.%s - Missing key", path, key))
			continue
		}
		out = append(out, d.compare(path+"."+key, refVal, candVal, d.strategyFor(key))...)
	}
	for _, key := range cand.Keys() {
		if _, ok := ref.Get(key); !ok {
			out = append(out, fmt.Sprintf("%s.%s - Extra key", path, key))
		}
	}
	return out
}

func (d *Differ) strategyFor(attr string) Strategy {
	if s, ok := d.schema[attr]; ok {
		return s
	}
	return Positional
}
