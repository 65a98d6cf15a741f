package extractor

import "structgrade/internal/structure"

// Prune strips noise from an extracted structure: false booleans, empty
// sequences, and mappings left empty after pruning all disappear. Mapping
// elements of a sequence are pruned in place; the sequence keeps its length.
func Prune(v structure.Value) structure.Value {
	switch v.Kind() {
	case structure.KindMapping:
		return pruneMapping(v)
	case structure.KindSequence:
		return pruneSequence(v)
	}
	return v
}

func pruneMapping(v structure.Value) structure.Value {
	out := structure.NewMapping()
	for _, key := range v.Keys() {
		val, _ := v.Get(key)
		switch val.Kind() {
		case structure.KindBool:
			if val.Bool() {
				out.Set(key, val)
			}
		case structure.KindSequence:
			if val.Len() > 0 {
				out.Set(key, pruneSequence(val))
			}
		case structure.KindMapping:
			if pruned := pruneMapping(val); pruned.Len() > 0 {
				out.Set(key, pruned)
			}
		default:
			out.Set(key, val)
		}
	}
	return out
}

func pruneSequence(v structure.Value) structure.Value {
	out := structure.Sequence()
	for _, item := range v.Items() {
		if item.Kind() == structure.KindMapping {
			out.Append(pruneMapping(item))
		} else {
			out.Append(item)
		}
	}
	return out
}
