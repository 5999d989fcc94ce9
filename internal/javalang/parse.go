package javalang

import (
	"fmt"
	"os"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// Parser parses Java source into the package's file model. A Parser is
// not safe for concurrent use; create one per goroutine.
type Parser struct {
	inner *tree_sitter.Parser
}

// NewParser returns a parser configured with the Java grammar.
func NewParser() (*Parser, error) {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(tree_sitter_java.Language())
	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("configuring Java grammar: %w", err)
	}
	return &Parser{inner: parser}, nil
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Parse(path, src)
}

// Parse parses src into a File. Sources with syntax errors still produce
// a model, with Valid reporting false, so callers choose how to degrade.
func (p *Parser) Parse(path string, src []byte) (*File, error) {
	tree := p.inner.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s: no tree produced", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	f := &File{Path: path, Source: src, valid: !root.HasError()}
	ex := extractor{file: f, src: src}
	ex.program(root)
	return f, nil
}

// ValidMember reports whether text parses cleanly when placed inside a
// class body. Used to vet generated method text before it is staged.
func (p *Parser) ValidMember(text string) bool {
	probe := "class P {\n" + text + "\n}\n"
	f, err := p.Parse("probe.java", []byte(probe))
	return err == nil && f.Valid()
}

type extractor struct {
	file *File
	src  []byte
}

func (ex *extractor) text(n *tree_sitter.Node) string {
	return string(ex.src[n.StartByte():n.EndByte()])
}

func (ex *extractor) span(n *tree_sitter.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (ex *extractor) program(root *tree_sitter.Node) {
	var pendingDoc *Comment
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		switch child.Kind() {
		case "package_declaration":
			ex.packageDecl(child)
			pendingDoc = nil
		case "import_declaration":
			ex.importDecl(child)
			pendingDoc = nil
		case "block_comment":
			pendingDoc = ex.docComment(child)
		case "line_comment":
			pendingDoc = nil
		case "class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration":
			if c := ex.class(child, nil, pendingDoc); c != nil {
				ex.file.Classes = append(ex.file.Classes, c)
			}
			pendingDoc = nil
		}
	}
}

// docComment returns the comment when it is javadoc, nil otherwise.
func (ex *extractor) docComment(node *tree_sitter.Node) *Comment {
	text := ex.text(node)
	if !strings.HasPrefix(text, "/**") {
		return nil
	}
	return &Comment{Text: text, Span: ex.span(node)}
}

func (ex *extractor) packageDecl(node *tree_sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "scoped_identifier" || child.Kind() == "identifier" {
			ex.file.Package = ex.text(child)
		}
	}
	ex.file.packageSpan = ex.span(node)
}

func (ex *extractor) importDecl(node *tree_sitter.Node) {
	imp := Import{Span: ex.span(node)}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "static":
			imp.Static = true
		case "scoped_identifier", "identifier":
			imp.Path = ex.text(child)
		case "asterisk":
			imp.Wildcard = true
		}
	}
	if imp.Path != "" {
		ex.file.Imports = append(ex.file.Imports, imp)
	}
}

func classKindOf(nodeKind string) ClassKind {
	switch nodeKind {
	case "interface_declaration":
		return KindInterface
	case "enum_declaration":
		return KindEnum
	case "record_declaration":
		return KindRecord
	case "annotation_type_declaration":
		return KindAnnotationType
	}
	return KindClass
}

func (ex *extractor) class(node *tree_sitter.Node, parent *Class, javadoc *Comment) *Class {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	c := &Class{
		Name:    ex.text(nameNode),
		Kind:    classKindOf(node.Kind()),
		Javadoc: javadoc,
		Span:    ex.span(node),
		Parent:  parent,
		File:    ex.file,
	}
	c.Modifiers, c.Annotations = ex.modifiers(node)

	if superNode := node.ChildByFieldName("superclass"); superNode != nil {
		for i := uint(0); i < superNode.ChildCount(); i++ {
			child := superNode.Child(i)
			if child.Kind() != "extends" {
				c.Super = ex.text(child)
			}
		}
	}
	if ifaceNode := node.ChildByFieldName("interfaces"); ifaceNode != nil {
		c.Interfaces = ex.typeList(ifaceNode)
	}
	if c.Kind == KindInterface {
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "extends_interfaces" {
				c.Interfaces = ex.typeList(child)
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return c
	}
	c.LBrace = int(body.StartByte())
	c.RBrace = int(body.EndByte()) - 1
	c.MemberStart = c.LBrace + 1
	if c.Kind == KindEnum {
		ex.enumBody(body, c)
	} else {
		ex.classBody(body, c)
	}
	return c
}

// typeList collects the type texts of an implements/extends clause.
func (ex *extractor) typeList(node *tree_sitter.Node) []string {
	var types []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "type_list":
			types = append(types, ex.typeList(child)...)
		case "type_identifier", "generic_type", "scoped_type_identifier":
			types = append(types, ex.text(child))
		}
	}
	return types
}

func (ex *extractor) classBody(body *tree_sitter.Node, c *Class) {
	var pendingDoc *Comment
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "block_comment":
			pendingDoc = ex.docComment(child)
		case "line_comment":
			pendingDoc = nil
		case "field_declaration":
			ex.field(child, c, pendingDoc)
			pendingDoc = nil
		case "method_declaration":
			m := ex.method(child, c, pendingDoc, false)
			c.Methods = append(c.Methods, m)
			c.Members = append(c.Members, Member{Kind: MemberMethod, Span: m.Span, Method: m})
			pendingDoc = nil
		case "constructor_declaration":
			m := ex.method(child, c, pendingDoc, true)
			c.Constructors = append(c.Constructors, m)
			c.Members = append(c.Members, Member{Kind: MemberConstructor, Span: m.Span, Method: m})
			pendingDoc = nil
		case "class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration":
			if nested := ex.class(child, c, pendingDoc); nested != nil {
				c.Nested = append(c.Nested, nested)
				c.Members = append(c.Members, Member{Kind: MemberType, Span: nested.Span, Nested: nested})
			}
			pendingDoc = nil
		case "static_initializer", "block":
			c.Members = append(c.Members, Member{Kind: MemberInitializer, Span: ex.span(child)})
			pendingDoc = nil
		}
	}
}

// enumBody handles the constant list and the declarations section after
// the separating semicolon. Constants surface as implicitly public
// static final fields of the enum's own type, which is how the language
// defines them. An enum without a declarations section needs the
// separator inserted before any member can be added.
func (ex *extractor) enumBody(body *tree_sitter.Node, c *Class) {
	hasDeclarations := false
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "enum_constant":
			f := &Field{
				Type:      ParseTypeRef(c.Name),
				Modifiers: Modifiers{Public: true, Static: true, Final: true},
				Span:      ex.span(child),
				Owner:     c,
			}
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				f.Name = ex.text(nameNode)
				f.NameSpan = ex.span(nameNode)
			}
			c.Fields = append(c.Fields, f)
			c.Members = append(c.Members, Member{Kind: MemberField, Span: f.Span, Field: f})
		case "enum_body_declarations":
			hasDeclarations = true
			// the declarations node starts at the separating semicolon
			c.MemberStart = int(child.StartByte()) + 1
			ex.classBody(child, c)
		}
	}
	if !hasDeclarations {
		c.MemberStart = c.RBrace
		c.NeedsSeparator = true
	}
}

func (ex *extractor) field(node *tree_sitter.Node, c *Class, javadoc *Comment) {
	mods, anns := ex.modifiers(node)
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	baseType := ParseTypeRef(ex.text(typeNode))
	declSpan := ex.span(node)

	first := true
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		fieldType := baseType
		for j := uint(0); j < child.ChildCount(); j++ {
			if child.Child(j).Kind() == "dimensions" {
				fieldType = ParseTypeRef(baseType.Text + strings.Repeat("[]", strings.Count(ex.text(child.Child(j)), "[")))
			}
		}
		f := &Field{
			Name:        ex.text(nameNode),
			Type:        fieldType,
			Modifiers:   mods,
			Annotations: anns,
			Javadoc:     javadoc,
			Span:        declSpan,
			NameSpan:    ex.span(nameNode),
			Owner:       c,
		}
		if valueNode := child.ChildByFieldName("value"); valueNode != nil {
			f.Init = ex.text(valueNode)
		}
		c.Fields = append(c.Fields, f)
		if first {
			c.Members = append(c.Members, Member{Kind: MemberField, Span: declSpan, Field: f})
			first = false
		}
	}
}

func (ex *extractor) method(node *tree_sitter.Node, c *Class, javadoc *Comment, constructor bool) *Method {
	m := &Method{
		Javadoc:     javadoc,
		Span:        ex.span(node),
		Constructor: constructor,
		Owner:       c,
	}
	m.Modifiers, m.Annotations = ex.modifiers(node)
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		m.Name = ex.text(nameNode)
	}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		m.Returns = ParseTypeRef(ex.text(typeNode))
	}
	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		m.Params = ex.params(paramsNode)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "throws" {
			for j := uint(0); j < child.ChildCount(); j++ {
				grand := child.Child(j)
				switch grand.Kind() {
				case "type_identifier", "generic_type", "scoped_type_identifier":
					m.Throws = append(m.Throws, ex.text(grand))
				}
			}
		}
	}
	if bodyNode := node.ChildByFieldName("body"); bodyNode != nil {
		m.Body = ex.span(bodyNode)
	}
	return m
}

func (ex *extractor) params(node *tree_sitter.Node) []Param {
	var params []Param
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "formal_parameter":
			p := Param{}
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				p.Type = ParseTypeRef(ex.text(typeNode))
			}
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				p.Name = ex.text(nameNode)
			}
			for j := uint(0); j < child.ChildCount(); j++ {
				if child.Child(j).Kind() == "dimensions" {
					p.Type = ParseTypeRef(p.Type.Text + "[]")
				}
			}
			params = append(params, p)
		case "spread_parameter":
			p := Param{Varargs: true}
			for j := uint(0); j < child.ChildCount(); j++ {
				grand := child.Child(j)
				switch grand.Kind() {
				case "type_identifier", "generic_type", "scoped_type_identifier",
					"integral_type", "floating_point_type", "boolean_type", "array_type":
					p.Type = ParseTypeRef(ex.text(grand) + "...")
				case "variable_declarator":
					if nameNode := grand.ChildByFieldName("name"); nameNode != nil {
						p.Name = ex.text(nameNode)
					}
				}
			}
			params = append(params, p)
		}
	}
	return params
}

func (ex *extractor) modifiers(node *tree_sitter.Node) (Modifiers, []Annotation) {
	var mods Modifiers
	var anns []Annotation
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "modifiers" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			grand := child.Child(j)
			switch grand.Kind() {
			case "marker_annotation", "annotation":
				ann := Annotation{Text: ex.text(grand), Span: ex.span(grand)}
				if nameNode := grand.ChildByFieldName("name"); nameNode != nil {
					name := ex.text(nameNode)
					if k := strings.LastIndexByte(name, '.'); k >= 0 {
						name = name[k+1:]
					}
					ann.Name = name
				}
				anns = append(anns, ann)
			default:
				switch ex.text(grand) {
				case "public":
					mods.Public = true
				case "protected":
					mods.Protected = true
				case "private":
					mods.Private = true
				case "static":
					mods.Static = true
				case "final":
					mods.Final = true
				case "abstract":
					mods.Abstract = true
				case "transient":
					mods.Transient = true
				case "volatile":
					mods.Volatile = true
				case "synchronized":
					mods.Synchronized = true
				case "native":
					mods.Native = true
				case "strictfp":
					mods.Strictfp = true
				case "default":
					mods.Default = true
				}
			}
		}
	}
	return mods, anns
}
