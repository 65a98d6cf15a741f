package extractor

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"structgrade/internal/structure"
)

// JavaExtractor implements LanguageExtractor for Java.
type JavaExtractor struct{}

func (j *JavaExtractor) GetLanguage() *sitter.Language {
	return java.GetLanguage()
}

func (j *JavaExtractor) ExtractTypes(root *sitter.Node, source []byte) []TypeInfo {
	var types []TypeInfo
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if isTypeDeclaration(child.Type()) {
			types = append(types, j.extractType(child, source))
		}
	}
	return types
}

func isTypeDeclaration(nodeType string) bool {
	switch nodeType {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"annotation_type_declaration", "record_declaration":
		return true
	}
	return false
}

func typeKind(nodeType string) string {
	switch nodeType {
	case "class_declaration":
		return "Class"
	case "interface_declaration":
		return "Interface"
	case "enum_declaration":
		return "Enum"
	case "annotation_type_declaration":
		return "Annotation"
	case "record_declaration":
		return "Record"
	}
	return "Unknown"
}

// extractType builds the structure mapping for one type declaration,
// recursing into nested types.
func (j *JavaExtractor) extractType(node *sitter.Node, source []byte) TypeInfo {
	kind := typeKind(node.Type())
	isInterface := kind == "Interface"
	mods := collectModifiers(node, source)
	members := bodyMembers(node)
	name := childContent(node, "name", source)

	t := structure.NewMapping()
	t.Set("name", structure.String(name))
	t.Set("kind", structure.String(kind))
	t.Set("public", structure.Bool(mods.flags["public"]))
	t.Set("protected", structure.Bool(mods.flags["protected"]))
	t.Set("private", structure.Bool(mods.flags["private"]))
	t.Set("abstract", structure.Bool(mods.flags["abstract"] || hasAbstractMethod(members, source)))
	t.Set("final", structure.Bool(mods.flags["final"] || kind == "Record"))

	// Nested interfaces, enums, annotations, and records are implicitly
	// static, as is anything declared inside an interface.
	enclosing := enclosingType(node)
	implicitStatic := isInterface || kind == "Enum" || kind == "Annotation" || kind == "Record" ||
		(enclosing != nil && enclosing.Type() == "interface_declaration")
	t.Set("static", structure.Bool(mods.flags["static"] || (enclosing != nil && implicitStatic)))

	extends := structure.Sequence()
	implements := structure.Sequence()
	switch node.Type() {
	case "class_declaration":
		if sc := node.ChildByFieldName("superclass"); sc != nil {
			for i := 0; i < int(sc.NamedChildCount()); i++ {
				extends.Append(structure.String(typeRefName(sc.NamedChild(i), source)))
			}
		}
		appendTypeRefs(&implements, node.ChildByFieldName("interfaces"), source)
	case "interface_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if c := node.NamedChild(i); c.Type() == "extends_interfaces" {
				appendTypeRefs(&extends, c, source)
			}
		}
	case "record_declaration":
		appendTypeRefs(&implements, node.ChildByFieldName("interfaces"), source)
	}
	t.Set("extends", extends)
	t.Set("implements", implements)

	annotations := structure.Sequence()
	for _, a := range mods.annotations {
		annotations.Append(structure.String(a))
	}
	t.Set("annotations", annotations)

	t.Set("fields", j.extractFields(node, members, isInterface, source))
	t.Set("constructors", j.extractConstructors(members, source))
	t.Set("methods", j.extractMethods(members, kind, isInterface, source))

	inners := structure.Sequence()
	for _, member := range members {
		if isTypeDeclaration(member.Type()) {
			inners.Append(j.extractType(member, source).Structure)
		}
	}
	t.Set("inners", inners)

	return TypeInfo{Name: name, Public: mods.flags["public"], Structure: t}
}

// extractFields covers record components first, then declared fields with
// one entry per declarator. Interface fields are implicitly public, static,
// and final.
func (j *JavaExtractor) extractFields(node *sitter.Node, members []*sitter.Node, isInterface bool, source []byte) structure.Value {
	fields := structure.Sequence()

	if node.Type() == "record_declaration" {
		if params := node.ChildByFieldName("parameters"); params != nil {
			for i := 0; i < int(params.NamedChildCount()); i++ {
				comp := params.NamedChild(i)
				if comp.Type() != "formal_parameter" && comp.Type() != "spread_parameter" {
					continue
				}
				typ, compName := paramTypeName(comp, source)
				f := structure.NewMapping()
				f.Set("name", structure.String(compName))
				f.Set("type", structure.String(typ))
				f.Set("public", structure.Bool(false))
				f.Set("protected", structure.Bool(false))
				f.Set("private", structure.Bool(true))
				f.Set("static", structure.Bool(false))
				f.Set("final", structure.Bool(true))
				fields.Append(f)
			}
		}
	}

	for _, member := range members {
		if member.Type() != "field_declaration" && member.Type() != "constant_declaration" {
			continue
		}
		fmods := collectModifiers(member, source)
		baseType := childContent(member, "type", source)
		for i := 0; i < int(member.NamedChildCount()); i++ {
			decl := member.NamedChild(i)
			if decl.Type() != "variable_declarator" {
				continue
			}
			declType := baseType
			if dims := decl.ChildByFieldName("dimensions"); dims != nil {
				declType += dims.Content(source)
			}
			f := structure.NewMapping()
			f.Set("name", structure.String(childContent(decl, "name", source)))
			f.Set("type", structure.String(normalizeType(declType)))
			f.Set("public", structure.Bool(isInterface || fmods.flags["public"]))
			f.Set("protected", structure.Bool(fmods.flags["protected"]))
			f.Set("private", structure.Bool(fmods.flags["private"]))
			f.Set("static", structure.Bool(isInterface || fmods.flags["static"]))
			f.Set("final", structure.Bool(isInterface || fmods.flags["final"]))
			f.Set("transient", structure.Bool(fmods.flags["transient"]))
			f.Set("volatile", structure.Bool(fmods.flags["volatile"]))
			fields.Append(f)
		}
	}
	return fields
}

func (j *JavaExtractor) extractConstructors(members []*sitter.Node, source []byte) structure.Value {
	constructors := structure.Sequence()
	for _, member := range members {
		if member.Type() != "constructor_declaration" {
			continue
		}
		cmods := collectModifiers(member, source)
		c := structure.NewMapping()
		c.Set("name", structure.String(childContent(member, "name", source)))
		c.Set("public", structure.Bool(cmods.flags["public"]))
		c.Set("protected", structure.Bool(cmods.flags["protected"]))
		c.Set("private", structure.Bool(cmods.flags["private"]))
		c.Set("params", paramTypes(member.ChildByFieldName("parameters"), source))
		c.Set("throws", throwsList(member, source))
		constructors.Append(c)
	}
	return constructors
}

// extractMethods handles annotation members separately: they carry only a
// name, a return type, and whether a default value is present. Interface
// methods are implicitly public, and abstract unless default or static.
func (j *JavaExtractor) extractMethods(members []*sitter.Node, kind string, isInterface bool, source []byte) structure.Value {
	methods := structure.Sequence()

	if kind == "Annotation" {
		for _, member := range members {
			if member.Type() != "annotation_type_element_declaration" {
				continue
			}
			m := structure.NewMapping()
			m.Set("name", structure.String(childContent(member, "name", source)))
			m.Set("returnType", structure.String(normalizeType(childContent(member, "type", source))))
			m.Set("default", structure.Bool(member.ChildByFieldName("value") != nil))
			methods.Append(m)
		}
		return methods
	}

	for _, member := range members {
		if member.Type() != "method_declaration" {
			continue
		}
		mmods := collectModifiers(member, source)
		ifaceAbstract := isInterface && !mmods.flags["default"] && !mmods.flags["static"]
		m := structure.NewMapping()
		m.Set("name", structure.String(childContent(member, "name", source)))
		m.Set("returnType", structure.String(normalizeType(childContent(member, "type", source))))
		m.Set("public", structure.Bool(isInterface || mmods.flags["public"]))
		m.Set("protected", structure.Bool(mmods.flags["protected"]))
		m.Set("private", structure.Bool(mmods.flags["private"]))
		m.Set("abstract", structure.Bool(ifaceAbstract || mmods.flags["abstract"]))
		m.Set("static", structure.Bool(mmods.flags["static"]))
		m.Set("final", structure.Bool(mmods.flags["final"]))
		m.Set("synchronized", structure.Bool(mmods.flags["synchronized"]))
		m.Set("native", structure.Bool(mmods.flags["native"]))
		m.Set("default", structure.Bool(mmods.flags["default"]))
		m.Set("params", paramTypes(member.ChildByFieldName("parameters"), source))
		m.Set("throws", throwsList(member, source))
		methods.Append(m)
	}
	return methods
}

type modifierSet struct {
	flags       map[string]bool
	annotations []string
}

func collectModifiers(node *sitter.Node, source []byte) modifierSet {
	set := modifierSet{flags: map[string]bool{}}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "modifiers" {
			continue
		}
		for k := 0; k < int(child.ChildCount()); k++ {
			mod := child.Child(k)
			switch mod.Type() {
			case "annotation", "marker_annotation":
				set.annotations = append(set.annotations, annotationName(mod, source))
			default:
				set.flags[mod.Type()] = true
			}
		}
	}
	return set
}

func annotationName(node *sitter.Node, source []byte) string {
	name := childContent(node, "name", source)
	if i := strings.LastIndex(name, "."); i != -1 {
		name = name[i+1:]
	}
	return name
}

func hasAbstractMethod(members []*sitter.Node, source []byte) bool {
	for _, member := range members {
		if member.Type() != "method_declaration" {
			continue
		}
		if collectModifiers(member, source).flags["abstract"] {
			return true
		}
	}
	return false
}

func enclosingType(node *sitter.Node) *sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if isTypeDeclaration(p.Type()) {
			return p
		}
	}
	return nil
}

// bodyMembers lists the direct member declarations of a type. Enum members
// live behind the constant list in an enum_body_declarations section.
func bodyMembers(node *sitter.Node) []*sitter.Node {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if body.Type() == "enum_body" {
		var decls *sitter.Node
		for i := 0; i < int(body.NamedChildCount()); i++ {
			if c := body.NamedChild(i); c.Type() == "enum_body_declarations" {
				decls = c
				break
			}
		}
		body = decls
		if body == nil {
			return nil
		}
	}
	members := make([]*sitter.Node, 0, body.NamedChildCount())
	for i := 0; i < int(body.NamedChildCount()); i++ {
		members = append(members, body.NamedChild(i))
	}
	return members
}

// appendTypeRefs collects the types of a wrapped type_list, as found under
// super_interfaces and extends_interfaces nodes.
func appendTypeRefs(seq *structure.Value, container *sitter.Node, source []byte) {
	if container == nil {
		return
	}
	for i := 0; i < int(container.NamedChildCount()); i++ {
		child := container.NamedChild(i)
		if child.Type() != "type_list" {
			continue
		}
		for k := 0; k < int(child.NamedChildCount()); k++ {
			seq.Append(structure.String(typeRefName(child.NamedChild(k), source)))
		}
	}
}

// typeRefName renders a supertype reference as its simple name plus any type
// arguments joined without spaces, package qualifiers stripped.
func typeRefName(node *sitter.Node, source []byte) string {
	base := node
	var args *sitter.Node
	if node.Type() == "generic_type" {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "type_arguments" {
				args = child
			} else {
				base = child
			}
		}
	}
	name := base.Content(source)
	if i := strings.LastIndex(name, "."); i != -1 {
		name = name[i+1:]
	}
	if args != nil {
		parts := make([]string, 0, args.NamedChildCount())
		for i := 0; i < int(args.NamedChildCount()); i++ {
			parts = append(parts, normalizeType(args.NamedChild(i).Content(source)))
		}
		name += "<" + strings.Join(parts, ",") + ">"
	}
	return name
}

// paramTypeName resolves the declared type and name of a formal or spread
// parameter, folding declarator array dimensions into the type.
func paramTypeName(node *sitter.Node, source []byte) (string, string) {
	if node.Type() == "spread_parameter" {
		var typ, name string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "modifiers":
			case "variable_declarator":
				name = childContent(child, "name", source)
			default:
				typ = child.Content(source)
			}
		}
		return normalizeType(typ), name
	}

	typ := childContent(node, "type", source)
	if dims := node.ChildByFieldName("dimensions"); dims != nil {
		typ += dims.Content(source)
	}
	return normalizeType(typ), childContent(node, "name", source)
}

func paramTypes(paramsNode *sitter.Node, source []byte) structure.Value {
	seq := structure.Sequence()
	if paramsNode == nil {
		return seq
	}
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		p := paramsNode.NamedChild(i)
		switch p.Type() {
		case "formal_parameter":
			typ, _ := paramTypeName(p, source)
			seq.Append(structure.String(typ))
		case "spread_parameter":
			typ, _ := paramTypeName(p, source)
			seq.Append(structure.String(typ + "..."))
		}
	}
	return seq
}

func throwsList(node *sitter.Node, source []byte) structure.Value {
	seq := structure.Sequence()
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "throws" {
			continue
		}
		for k := 0; k < int(child.NamedChildCount()); k++ {
			seq.Append(structure.String(normalizeType(child.NamedChild(k).Content(source))))
		}
	}
	return seq
}

func childContent(node *sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(source)
}

var typePunctRe = regexp.MustCompile(`\s*([<>,\[\]])\s*`)

// normalizeType canonicalizes the spacing of a source-level type reference:
// whitespace runs collapse, punctuation binds tight, commas take a single
// trailing space.
func normalizeType(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = typePunctRe.ReplaceAllString(s, "$1")
	return strings.ReplaceAll(s, ",", ", ")
}
