package xsdgen

import (
	"maps"
	"slices"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
	"github.com/rs/zerolog"
)

// XSDNamespace is the XML Schema namespace
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"

// Unbounded is the maxOccurs literal for an unlimited number of occurrences.
const Unbounded = "unbounded"

// ElementType is the reduced type vocabulary elements are synthesized from.
type ElementType string

const (
	TypeString  ElementType = "string"
	TypeInteger ElementType = "integer"
	TypeDecimal ElementType = "decimal"
	TypeBoolean ElementType = "boolean"
	TypeDate    ElementType = "date"
	TypeURI     ElementType = "uri"
	TypeBinary  ElementType = "binary"
	TypeComplex ElementType = "complex"
)

// SchemaElement is a node of the parsed element tree.
//
// MinOccurs and MaxOccurs keep their lexical form: MinOccurs "0" marks an
// optional element and MaxOccurs may be the literal "unbounded". Children is
// only populated for complex elements. UnresolvedType is set while a named
// type reference waits for resolution and is always empty once Parse returns.
type SchemaElement struct {
	Name           string           `json:"name"`
	Type           ElementType      `json:"type"`
	MinOccurs      string           `json:"minOccurs"`
	MaxOccurs      string           `json:"maxOccurs"`
	Children       []*SchemaElement `json:"children"`
	UnresolvedType string           `json:"unresolvedType,omitempty"`
}

// ComplexType is a named, reusable child list.
type ComplexType struct {
	Name     string           `json:"name"`
	Children []*SchemaElement `json:"children"`
}

// ComplexTypeRegistry maps complex type names to their definitions.
type ComplexTypeRegistry map[string]*ComplexType

// ParsedSchema is the result of parsing an XSD document
type ParsedSchema struct {
	Elements        []*SchemaElement       `json:"elements"`
	ComplexTypes    ComplexTypeRegistry    `json:"complexTypes"`
	SimpleTypes     map[string]ElementType `json:"simpleTypes,omitempty"`
	TargetNamespace string                 `json:"targetNamespace"`
	Diagnostics     []Diagnostic           `json:"diagnostics,omitempty"`
}

// Parser turns XSD text into a ParsedSchema.
type Parser struct {
	log      zerolog.Logger
	fileName string
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserLogger sets the logger used for parse tracing.
func WithParserLogger(l zerolog.Logger) ParserOption {
	return func(p *Parser) { p.log = l }
}

// WithFileName sets the file name reported in diagnostic positions.
func WithFileName(name string) ParserOption {
	return func(p *Parser) { p.fileName = name }
}

// NewParser creates a parser
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSchema parses XSD text with a default parser.
func ParseSchema(text string) (*ParsedSchema, error) {
	return NewParser().Parse(text)
}

// Parse decodes XSD text and builds the element tree.
func (p *Parser) Parse(text string) (*ParsedSchema, error) {
	doc, err := xmldom.NewDecoderFromBytes([]byte(text)).Decode()
	if err != nil {
		return nil, &SchemaError{Reason: "malformed XML", Err: err}
	}
	return p.ParseDocument(doc)
}

// ParseDocument builds the element tree from an already decoded document.
func (p *Parser) ParseDocument(doc xmldom.Document) (*ParsedSchema, error) {
	if doc == nil {
		return nil, &SchemaError{Reason: "nil document"}
	}
	root := doc.DocumentElement()
	if root == nil || string(root.LocalName()) != "schema" {
		return nil, &SchemaError{Reason: "invalid XSD schema", Err: ErrNoSchemaRoot}
	}

	b := &schemaBuilder{
		log:          p.log,
		fileName:     p.fileName,
		rootNS:       string(root.NamespaceURI()),
		complexTypes: make(ComplexTypeRegistry),
		simpleTypes:  make(map[string]ElementType),
		pending:      make(map[*SchemaElement]xmldom.Element),
	}
	return b.build(root), nil
}

// schemaBuilder holds the state of a single parse.
type schemaBuilder struct {
	log          zerolog.Logger
	fileName     string
	rootNS       string
	complexTypes ComplexTypeRegistry
	simpleTypes  map[string]ElementType
	pending      map[*SchemaElement]xmldom.Element
	diagnostics  []Diagnostic
}

func (b *schemaBuilder) build(root xmldom.Element) *ParsedSchema {
	top := b.schemaChildren(root)

	// Simple types first so complex types and elements may name them in any order.
	for _, child := range top {
		if string(child.LocalName()) != "simpleType" {
			continue
		}
		if name := attr(child, "name"); name != "" {
			b.simpleTypes[name] = b.simpleTypeBase(child)
		}
	}

	for _, child := range top {
		if string(child.LocalName()) != "complexType" {
			continue
		}
		name := attr(child, "name")
		if name == "" {
			continue
		}
		b.log.Debug().Str("type", name).Msg("parsing complex type")
		b.complexTypes[name] = &ComplexType{
			Name:     name,
			Children: b.parseComplexType(child, name),
		}
	}

	elements := []*SchemaElement{}
	for _, child := range top {
		if string(child.LocalName()) != "element" {
			continue
		}
		if el := b.parseElement(child, ""); el != nil {
			b.log.Debug().Str("element", el.Name).Msg("parsed root element")
			elements = append(elements, el)
		}
	}

	b.resolveTypeReferences(elements)

	return &ParsedSchema{
		Elements:        elements,
		ComplexTypes:    b.complexTypes,
		SimpleTypes:     b.simpleTypes,
		TargetNamespace: attr(root, "targetNamespace"),
		Diagnostics:     b.diagnostics,
	}
}

// resolveTypeReferences attaches registry children to every element still
// carrying an unresolved type name. References that cannot be resolved are
// left as empty complex elements. Registry types are visited in name order
// so diagnostics come out in a stable order.
func (b *schemaBuilder) resolveTypeReferences(elements []*SchemaElement) {
	visited := make(map[*SchemaElement]bool)
	for _, el := range elements {
		b.resolveElement(el, visited)
	}
	for _, name := range slices.Sorted(maps.Keys(b.complexTypes)) {
		for _, child := range b.complexTypes[name].Children {
			b.resolveElement(child, visited)
		}
	}
}

func (b *schemaBuilder) resolveElement(el *SchemaElement, visited map[*SchemaElement]bool) {
	if visited[el] {
		return
	}
	visited[el] = true

	if el.UnresolvedType != "" {
		if ct, ok := b.lookupComplexType(el.UnresolvedType); ok {
			b.log.Debug().Str("element", el.Name).Str("type", el.UnresolvedType).Msg("resolved type reference")
			el.Children = ct.Children
			el.Type = TypeComplex
		} else {
			b.warn(b.pending[el], "type", CodeUnresolvedType,
				"type '"+el.UnresolvedType+"' of element '"+el.Name+"' is not declared in this schema",
				"the element has no children and is generated as a scalar value",
				"imports and includes are not followed")
		}
		el.UnresolvedType = ""
		delete(b.pending, el)
	}

	for _, child := range el.Children {
		b.resolveElement(child, visited)
	}
}

// parseElement parses an element declaration. It returns nil for particles
// that carry no name.
func (b *schemaBuilder) parseElement(elem xmldom.Element, parent string) *SchemaElement {
	name := attr(elem, "name")
	if name == "" {
		if ref := attr(elem, "ref"); ref != "" {
			b.warn(elem, "ref", CodeElementRef, "element reference '"+ref+"' is not modeled",
				"declare the element inline or through a named complex type")
		} else {
			b.warn(elem, "", CodeUnnamedElement, "element without a name is ignored")
		}
		return nil
	}

	el := &SchemaElement{
		Name:      name,
		Type:      TypeComplex,
		MinOccurs: attrOr(elem, "minOccurs", "1"),
		MaxOccurs: attrOr(elem, "maxOccurs", "1"),
		Children:  []*SchemaElement{},
	}
	typeName := attr(elem, "type")

	b.log.Debug().Str("element", name).Str("type", typeName).Str("parent", parent).Msg("parsing element")

	if ct := b.firstChild(elem, "complexType"); ct != nil {
		el.Children = b.parseComplexType(ct, name)
		el.Type = TypeComplex
		return el
	}
	if st := b.firstChild(elem, "simpleType"); st != nil && typeName == "" {
		el.Type = b.simpleTypeBase(st)
		return el
	}
	if typeName == "" {
		return el
	}

	if ct, ok := b.lookupComplexType(typeName); ok {
		el.Children = ct.Children
		el.Type = TypeComplex
	} else if kind, ok := b.lookupSimpleType(typeName); ok {
		el.Type = kind
	} else if isBuiltinReference(typeName) {
		el.Type = MapBuiltinType(typeName)
	} else {
		b.log.Debug().Str("element", name).Str("type", typeName).Msg("deferring type reference")
		el.Type = TypeComplex
		el.UnresolvedType = typeName
		b.pending[el] = elem
	}
	return el
}

// parseComplexType flattens the sequence, choice and all groups of a complex
// type into one ordered child list.
func (b *schemaBuilder) parseComplexType(ct xmldom.Element, parent string) []*SchemaElement {
	children := []*SchemaElement{}
	for _, child := range b.schemaChildren(ct) {
		switch string(child.LocalName()) {
		case "sequence", "choice", "all":
			children = b.collectGroup(child, parent, children)
		case "complexContent", "simpleContent":
			b.warn(child, "", CodeUnsupported, string(child.LocalName())+" in type of '"+parent+"' is not modeled")
		case "group":
			b.warn(child, "ref", CodeUnsupported, "group reference in type of '"+parent+"' is not modeled")
		}
	}
	b.log.Debug().Str("parent", parent).Int("children", len(children)).Msg("complex type parsed")
	return children
}

func (b *schemaBuilder) collectGroup(group xmldom.Element, parent string, children []*SchemaElement) []*SchemaElement {
	for _, child := range b.schemaChildren(group) {
		switch string(child.LocalName()) {
		case "element":
			if el := b.parseElement(child, parent); el != nil {
				children = append(children, el)
			}
		case "sequence", "choice", "all":
			children = b.collectGroup(child, parent, children)
		case "group":
			b.warn(child, "ref", CodeUnsupported, "group reference in type of '"+parent+"' is not modeled")
		}
	}
	return children
}

// simpleTypeBase reduces a simpleType declaration to the type of its base
// primitive. Facets are ignored.
func (b *schemaBuilder) simpleTypeBase(st xmldom.Element) ElementType {
	for _, child := range b.schemaChildren(st) {
		switch string(child.LocalName()) {
		case "restriction":
			base := attr(child, "base")
			if kind, ok := b.lookupSimpleType(base); ok {
				return kind
			}
			if base != "" {
				return MapBuiltinType(base)
			}
			if inner := b.firstChild(child, "simpleType"); inner != nil {
				return b.simpleTypeBase(inner)
			}
		case "list", "union":
			return TypeString
		}
	}
	return TypeString
}

func (b *schemaBuilder) lookupComplexType(name string) (*ComplexType, bool) {
	if ct, ok := b.complexTypes[name]; ok {
		return ct, true
	}
	ct, ok := b.complexTypes[localName(name)]
	return ct, ok
}

func (b *schemaBuilder) lookupSimpleType(name string) (ElementType, bool) {
	if name == "" {
		return "", false
	}
	if kind, ok := b.simpleTypes[name]; ok {
		return kind, true
	}
	kind, ok := b.simpleTypes[localName(name)]
	return kind, ok
}

// schemaChildren returns the element children that belong to the schema
// vocabulary: the XSD namespace, or the namespace of the schema root itself
// when the document is unqualified.
func (b *schemaBuilder) schemaChildren(elem xmldom.Element) []xmldom.Element {
	var out []xmldom.Element
	children := elem.Children()
	for i := uint(0); i < children.Length(); i++ {
		child := children.Item(i)
		if child == nil {
			continue
		}
		ns := string(child.NamespaceURI())
		if ns != XSDNamespace && ns != b.rootNS {
			continue
		}
		out = append(out, child)
	}
	return out
}

func (b *schemaBuilder) firstChild(elem xmldom.Element, local string) xmldom.Element {
	for _, child := range b.schemaChildren(elem) {
		if string(child.LocalName()) == local {
			return child
		}
	}
	return nil
}

func (b *schemaBuilder) warn(elem xmldom.Element, attribute, code, message string, hints ...string) {
	b.log.Debug().Str("code", code).Msg(message)
	b.diagnostics = append(b.diagnostics, newDiagnostic(b.fileName, elem, attribute, SeverityWarning, code, message, hints...))
}

// isBuiltinReference reports whether a type attribute names an XSD built-in:
// any name under the xs or xsd prefix, or a known unprefixed primitive.
func isBuiltinReference(typeName string) bool {
	prefix, _, found := strings.Cut(typeName, ":")
	if !found {
		return IsBuiltinType(typeName)
	}
	return prefix == "xs" || prefix == "xsd"
}

func localName(name string) string {
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func attr(elem xmldom.Element, name string) string {
	return strings.TrimSpace(string(elem.GetAttribute(xmldom.DOMString(name))))
}

func attrOr(elem xmldom.Element, name, def string) string {
	if v := attr(elem, name); v != "" {
		return v
	}
	return def
}
