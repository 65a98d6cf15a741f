package structure

// Corpus is an ordered collection of named class structures, the unit both
// graded submissions and reference material reduce to before comparison.
type Corpus struct {
	names []string
	m     map[string]Value
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{m: map[string]Value{}}
}

// Add inserts a class under name. Re-adding an existing name replaces the
// stored class and keeps the original position.
func (c *Corpus) Add(name string, class Value) {
	if _, ok := c.m[name]; !ok {
		c.names = append(c.names, name)
	}
	c.m[name] = class
}

// Names returns class names in insertion order.
func (c *Corpus) Names() []string { return c.names }

// Class looks up a class by name.
func (c *Corpus) Class(name string) (Value, bool) {
	v, ok := c.m[name]
	return v, ok
}

func (c *Corpus) Len() int { return len(c.names) }

// Value renders the corpus as a name-keyed mapping, for JSON dumps.
func (c *Corpus) Value() Value {
	m := NewMapping()
	for _, name := range c.names {
		m.Set(name, c.m[name])
	}
	return m
}

// NormalizeCorpus shapes a decoded document into a corpus. A mapping is
// taken as name-to-class entries in key order. A sequence admits every item
// that is a mapping carrying a string "name" attribute and drops the rest.
// Name collisions resolve last-write-wins. Any other document shape yields
// an empty corpus.
func NormalizeCorpus(v Value) *Corpus {
	c := NewCorpus()
	switch v.Kind() {
	case KindMapping:
		for _, name := range v.Keys() {
			class, _ := v.Get(name)
			c.Add(name, class)
		}
	case KindSequence:
		for _, item := range v.Items() {
			if item.Kind() != KindMapping {
				continue
			}
			name, ok := item.Get("name")
			if !ok || name.Kind() != KindString {
				continue
			}
			c.Add(name.Str(), item)
		}
	}
	return c
}
