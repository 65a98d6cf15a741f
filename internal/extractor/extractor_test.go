package extractor

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structgrade/internal/structure"
)

func extractFile(t *testing.T, name string) structure.Value {
	t.Helper()
	ext, err := NewExtractor("java")
	require.NoError(t, err)
	v, err := ext.ExtractFromFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return v
}

func extractSource(t *testing.T, src string) structure.Value {
	t.Helper()
	ext, err := NewExtractor("java")
	require.NoError(t, err)
	v, err := ext.ExtractSource([]byte(src))
	require.NoError(t, err)
	return v
}

func itemNamed(t *testing.T, class structure.Value, attr, name string) structure.Value {
	t.Helper()
	seq, ok := class.Get(attr)
	require.True(t, ok, attr)
	for _, item := range seq.Items() {
		if item.StringAt("name") == name {
			return item
		}
	}
	t.Fatalf("%s has no item named %q", attr, name)
	return structure.Value{}
}

func flag(t *testing.T, m structure.Value, key string) bool {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok, key)
	return v.Bool()
}

func stringSeq(t *testing.T, m structure.Value, key string) []string {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok, key)
	out := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		out = append(out, item.Str())
	}
	return out
}

func TestExtractor_Class(t *testing.T) {
	class := extractFile(t, "Stack.java")

	t.Run("Declaration", func(t *testing.T) {
		assert.Equal(t, "Stack", class.StringAt("name"))
		assert.Equal(t, "Class", class.StringAt("kind"))
		assert.True(t, flag(t, class, "public"))
		assert.True(t, flag(t, class, "abstract"))
		assert.False(t, flag(t, class, "final"))
		assert.False(t, flag(t, class, "static"))
		assert.Equal(t, []string{"AbstractCollection<String>"}, stringSeq(t, class, "extends"))
		assert.Equal(t, []string{"Serializable", "Comparable<Stack>"}, stringSeq(t, class, "implements"))
		assert.Equal(t, []string{"Deprecated"}, stringSeq(t, class, "annotations"))
	})

	t.Run("Attribute Order", func(t *testing.T) {
		want := []string{
			"name", "kind", "public", "protected", "private", "abstract", "final", "static",
			"extends", "implements", "annotations", "fields", "constructors", "methods", "inners",
		}
		assert.Equal(t, want, class.Keys())
	})

	t.Run("Fields", func(t *testing.T) {
		fields, ok := class.Get("fields")
		require.True(t, ok)
		require.Equal(t, 6, fields.Len(), "one entry per declarator")

		capa := itemNamed(t, class, "fields", "DEFAULT_CAPACITY")
		assert.Equal(t, "int", capa.StringAt("type"))
		assert.True(t, flag(t, capa, "public"))
		assert.True(t, flag(t, capa, "static"))
		assert.True(t, flag(t, capa, "final"))

		size := itemNamed(t, class, "fields", "size")
		assert.Equal(t, "int", size.StringAt("type"))
		assert.True(t, flag(t, size, "private"))
		capacity := itemNamed(t, class, "fields", "capacity")
		assert.Equal(t, "int", capacity.StringAt("type"))

		labels := itemNamed(t, class, "fields", "labels")
		assert.Equal(t, "String[]", labels.StringAt("type"))
		assert.True(t, flag(t, labels, "protected"))

		cache := itemNamed(t, class, "fields", "cache")
		assert.Equal(t, "List<String>", cache.StringAt("type"))
		assert.True(t, flag(t, cache, "transient"))

		dirty := itemNamed(t, class, "fields", "dirty")
		assert.True(t, flag(t, dirty, "volatile"))
	})

	t.Run("Constructors", func(t *testing.T) {
		ctors, ok := class.Get("constructors")
		require.True(t, ok)
		require.Equal(t, 2, ctors.Len())

		first := ctors.Items()[0]
		assert.Equal(t, "Stack", first.StringAt("name"))
		assert.True(t, flag(t, first, "public"))
		assert.Empty(t, stringSeq(t, first, "params"))

		second := ctors.Items()[1]
		assert.True(t, flag(t, second, "protected"))
		assert.Equal(t, []string{"int", "String..."}, stringSeq(t, second, "params"))
		assert.Equal(t, []string{"IllegalArgumentException"}, stringSeq(t, second, "throws"))
	})

	t.Run("Methods", func(t *testing.T) {
		push := itemNamed(t, class, "methods", "push")
		assert.Equal(t, "void", push.StringAt("returnType"))
		assert.True(t, flag(t, push, "abstract"))

		pop := itemNamed(t, class, "methods", "pop")
		assert.Equal(t, "String", pop.StringAt("returnType"))
		assert.Equal(t, []string{"java.util.NoSuchElementException"}, stringSeq(t, pop, "throws"))

		of := itemNamed(t, class, "methods", "of")
		assert.True(t, flag(t, of, "static"))
		assert.Equal(t, []string{"List<String>"}, stringSeq(t, of, "params"))

		indexOf := itemNamed(t, class, "methods", "indexOf")
		assert.True(t, flag(t, indexOf, "protected"))
		assert.True(t, flag(t, indexOf, "final"))
		assert.Equal(t, "int", indexOf.StringAt("returnType"))
		assert.Equal(t, []string{"String", "int"}, stringSeq(t, indexOf, "params"))

		grow := itemNamed(t, class, "methods", "grow")
		assert.True(t, flag(t, grow, "private"))
		assert.True(t, flag(t, grow, "synchronized"))
	})

	t.Run("Inner Types", func(t *testing.T) {
		inners, ok := class.Get("inners")
		require.True(t, ok)
		require.Equal(t, 2, inners.Len())

		node := inners.Items()[0]
		assert.Equal(t, "Node", node.StringAt("name"))
		assert.Equal(t, "Class", node.StringAt("kind"))
		assert.True(t, flag(t, node, "static"))

		listener := inners.Items()[1]
		assert.Equal(t, "Listener", listener.StringAt("name"))
		assert.Equal(t, "Interface", listener.StringAt("kind"))
		assert.True(t, flag(t, listener, "static"), "nested interface is implicitly static")
		assert.False(t, flag(t, listener, "abstract"), "only explicit abstract methods count")

		onPush := itemNamed(t, listener, "methods", "onPush")
		assert.True(t, flag(t, onPush, "abstract"))
		assert.True(t, flag(t, onPush, "public"))
	})
}

func TestExtractor_Interface(t *testing.T) {
	iface := extractFile(t, "Shape.java")

	assert.Equal(t, "Interface", iface.StringAt("kind"))
	assert.False(t, flag(t, iface, "static"), "top-level interface is not static")
	assert.False(t, flag(t, iface, "abstract"))
	assert.Equal(t, []string{"Comparable<Shape>", "Cloneable"}, stringSeq(t, iface, "extends"))
	assert.Empty(t, stringSeq(t, iface, "implements"))

	precision := itemNamed(t, iface, "fields", "PRECISION")
	assert.Equal(t, "double", precision.StringAt("type"))
	assert.True(t, flag(t, precision, "public"))
	assert.True(t, flag(t, precision, "static"))
	assert.True(t, flag(t, precision, "final"))

	area := itemNamed(t, iface, "methods", "area")
	assert.True(t, flag(t, area, "public"))
	assert.True(t, flag(t, area, "abstract"))
	assert.False(t, flag(t, area, "default"))

	describe := itemNamed(t, iface, "methods", "describe")
	assert.True(t, flag(t, describe, "default"))
	assert.False(t, flag(t, describe, "abstract"))

	unit := itemNamed(t, iface, "methods", "unit")
	assert.True(t, flag(t, unit, "static"))
	assert.False(t, flag(t, unit, "abstract"))
}

func TestExtractor_Enum(t *testing.T) {
	enum := extractFile(t, "Color.java")

	assert.Equal(t, "Enum", enum.StringAt("kind"))
	assert.False(t, flag(t, enum, "static"))
	assert.Empty(t, stringSeq(t, enum, "extends"))
	assert.Empty(t, stringSeq(t, enum, "implements"), "enum supertypes are not recorded")

	fields, ok := enum.Get("fields")
	require.True(t, ok)
	require.Equal(t, 1, fields.Len(), "enum constants are not fields")

	code := itemNamed(t, enum, "fields", "code")
	assert.True(t, flag(t, code, "private"))
	assert.True(t, flag(t, code, "final"))

	method := itemNamed(t, enum, "methods", "code")
	assert.Equal(t, "int", method.StringAt("returnType"))
	assert.True(t, flag(t, method, "public"))
}

func TestExtractor_Record(t *testing.T) {
	rec := extractFile(t, "Point.java")

	assert.Equal(t, "Record", rec.StringAt("kind"))
	assert.True(t, flag(t, rec, "final"), "records are implicitly final")
	assert.False(t, flag(t, rec, "static"))
	assert.Equal(t, []string{"Cloneable"}, stringSeq(t, rec, "implements"))

	fields, ok := rec.Get("fields")
	require.True(t, ok)
	require.Equal(t, 3, fields.Len(), "components precede declared fields")

	x := fields.Items()[0]
	assert.Equal(t, "x", x.StringAt("name"))
	assert.Equal(t, "int", x.StringAt("type"))
	assert.True(t, flag(t, x, "private"))
	assert.True(t, flag(t, x, "final"))
	assert.Equal(t, []string{"name", "type", "public", "protected", "private", "static", "final"}, x.Keys())

	origin := itemNamed(t, rec, "fields", "ORIGIN")
	assert.True(t, flag(t, origin, "public"))
	assert.True(t, flag(t, origin, "static"))
	assert.False(t, flag(t, origin, "transient"))

	ctors, ok := rec.Get("constructors")
	require.True(t, ok)
	require.Equal(t, 1, ctors.Len(), "compact constructors are skipped")
	assert.Equal(t, []string{"int"}, stringSeq(t, ctors.Items()[0], "params"))

	distance := itemNamed(t, rec, "methods", "distance")
	assert.Equal(t, "double", distance.StringAt("returnType"))
	assert.Equal(t, []string{"Point"}, stringSeq(t, distance, "params"))
}

func TestExtractor_Annotation(t *testing.T) {
	ann := extractFile(t, "Marker.java")

	assert.Equal(t, "Annotation", ann.StringAt("kind"))
	assert.False(t, flag(t, ann, "static"))

	value := itemNamed(t, ann, "methods", "value")
	assert.Equal(t, "String", value.StringAt("returnType"))
	assert.True(t, flag(t, value, "default"))
	assert.Equal(t, []string{"name", "returnType", "default"}, value.Keys())

	priority := itemNamed(t, ann, "methods", "priority")
	assert.False(t, flag(t, priority, "default"))
}

func TestExtractor_MainTypeSelection(t *testing.T) {
	t.Run("first public wins", func(t *testing.T) {
		v := extractSource(t, `
			class Helper {}
			public class Multi {}
			class Trailer {}
		`)
		assert.Equal(t, "Multi", v.StringAt("name"))
	})

	t.Run("last declaration without public", func(t *testing.T) {
		v := extractSource(t, `
			class Helper {}
			class Trailer {}
		`)
		assert.Equal(t, "Trailer", v.StringAt("name"))
	})

	t.Run("no declarations", func(t *testing.T) {
		v := extractSource(t, "package empty;\n")
		assert.Equal(t, structure.KindMapping, v.Kind())
		assert.Equal(t, 0, v.Len())
	})
}

func TestExtractor_TypeNormalization(t *testing.T) {
	v := extractSource(t, `
		public class Box {
			java.util.Map<String,Integer> index;
			void put(Map < String , Integer > m, int[] ids) {}
		}
	`)

	index := itemNamed(t, v, "fields", "index")
	assert.Equal(t, "java.util.Map<String, Integer>", index.StringAt("type"))

	put := itemNamed(t, v, "methods", "put")
	assert.Equal(t, []string{"Map<String, Integer>", "int[]"}, stringSeq(t, put, "params"))
}

func TestExtractor_ParseError(t *testing.T) {
	ext, err := NewExtractor("java")
	require.NoError(t, err)

	_, err = ext.ExtractSource([]byte("public class Broken { void f( }"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestExtractor_UnsupportedLanguage(t *testing.T) {
	_, err := NewExtractor("python")
	assert.Error(t, err)
}
