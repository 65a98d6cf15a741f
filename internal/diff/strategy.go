package diff

import (
	"fmt"
	"slices"
	"strings"

	"structgrade/internal/structure"
)

// Strategy matches two sequence values appearing under the same attribute.
type Strategy interface {
	match(d *Differ, path string, ref, cand structure.Value) []string
}

var (
	// Positional requires equal length and compares element-wise.
	Positional Strategy = positional{}

	// UnorderedSet compares scalar sequences as multisets, ignoring order.
	UnorderedSet Strategy = unorderedSet{}

	// Fields matches items by their "name" attribute.
	Fields Strategy = keyed{key: fieldKey, describe: describeField, extend: extendField}

	// Methods matches items by name plus ordered parameter types.
	Methods Strategy = keyed{key: methodKey, describe: describeMethod, extend: extendMethod}

	// Constructors matches items by ordered parameter types alone.
	Constructors Strategy = keyed{key: constructorKey, describe: describeConstructor, extend: extendConstructor}
)

type positional struct{}

func (positional) match(d *Differ, path string, ref, cand structure.Value) []string {
	if ref.Len() != cand.Len() {
		return []string{fmt.Sprintf("%s - Length mismatch: expected %d, got %d", path, ref.Len(), cand.Len())}
	}
	var out []string
	candItems := cand.Items()
	for i, refItem := range ref.Items() {
		out = append(out, d.compare(fmt.Sprintf("%s[%d]", path, i), refItem, candItems[i], Positional)...)
	}
	return out
}

type unorderedSet struct{}

func (unorderedSet) match(_ *Differ, path string, ref, cand structure.Value) []string {
	refSorted := sortedScalars(ref)
	candSorted := sortedScalars(cand)
	if slices.Equal(refSorted, candSorted) {
		return nil
	}
	return []string{fmt.Sprintf("%s - Content mismatch: expected [%s], got [%s]",
		path, strings.Join(refSorted, ", "), strings.Join(candSorted, ", "))}
}

func sortedScalars(v structure.Value) []string {
	out := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		out = append(out, quote(item))
	}
	slices.Sort(out)
	return out
}

// keyed indexes both sides by a derived key, reports one-sided keys as
// missing or extra, and recurses into matched pairs under a signature path.
// A key seen twice on one side is reported as a duplicate for each extra
// occurrence; matching then proceeds against the last occurrence.
type keyed struct {
	key      func(structure.Value) string
	describe func(structure.Value) string
	extend   func(path string, item structure.Value) string
}

func (k keyed) match(d *Differ, path string, ref, cand structure.Value) []string {
	var out []string
	refIdx := k.index(path, ref, &out)
	candIdx := k.index(path, cand, &out)

	for _, key := range refIdx.keys {
		refItem := refIdx.m[key]
		candItem, ok := candIdx.m[key]
		if !ok {
			out = append(out, fmt.Sprintf("%s - Missing %s", path, k.describe(refItem)))
			continue
		}
		out = append(out, d.compare(k.extend(path, refItem), refItem, candItem, Positional)...)
	}
	for _, key := range candIdx.keys {
		if _, ok := refIdx.m[key]; !ok {
			out = append(out, fmt.Sprintf("%s - Extra %s", path, k.describe(candIdx.m[key])))
		}
	}
	return out
}

type itemIndex struct {
	keys []string
	m    map[string]structure.Value
}

func (k keyed) index(path string, v structure.Value, out *[]string) itemIndex {
	idx := itemIndex{m: map[string]structure.Value{}}
	for _, item := range v.Items() {
		key := k.key(item)
		if _, dup := idx.m[key]; dup {
			*out = append(*out, fmt.Sprintf("%s - Duplicate %s", path, k.describe(item)))
		} else {
			idx.keys = append(idx.keys, key)
		}
		idx.m[key] = item
	}
	return idx
}

// keySep joins the parts of a composite key. Type names can contain commas
// (generics), so a printable separator would be ambiguous.
const keySep = "\x1f"

func fieldKey(item structure.Value) string { return item.StringAt("name") }

func methodKey(item structure.Value) string {
	return item.StringAt("name") + keySep + strings.Join(formatParams(item), keySep)
}

func constructorKey(item structure.Value) string {
	return strings.Join(formatParams(item), keySep)
}

func describeField(item structure.Value) string {
	return "field: " + item.StringAt("name")
}

func describeMethod(item structure.Value) string {
	return "method: " + item.StringAt("name") + " with params " + bracketList(paramValues(item))
}

func describeConstructor(item structure.Value) string {
	return "constructor with params " + bracketList(paramValues(item))
}

func extendField(path string, item structure.Value) string {
	return path + "." + item.StringAt("name")
}

func extendMethod(path string, item structure.Value) string {
	return path + "." + item.StringAt("name") + "(" + strings.Join(formatParams(item), ",") + ")"
}

func extendConstructor(path string, item structure.Value) string {
	return path + ".constructor(" + strings.Join(formatParams(item), ",") + ")"
}

func paramValues(item structure.Value) []structure.Value {
	params, ok := item.Get("params")
	if !ok || params.Kind() != structure.KindSequence {
		return nil
	}
	return params.Items()
}

func formatParams(item structure.Value) []string {
	vals := paramValues(item)
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.Format()
	}
	return out
}

func quote(v structure.Value) string {
	if v.Kind() == structure.KindString {
		return "'" + v.Str() + "'"
	}
	return v.Format()
}

func bracketList(vals []structure.Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = quote(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
