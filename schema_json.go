package xsdgen

import "encoding/json"

// elementView is the JSON form of a SchemaElement. Recursive types make the
// resolved tree cyclic, so an element that reappears below itself is emitted
// once more with Recursive set and no children.
type elementView struct {
	Name      string         `json:"name"`
	Type      ElementType    `json:"type"`
	MinOccurs string         `json:"minOccurs"`
	MaxOccurs string         `json:"maxOccurs"`
	Children  []*elementView `json:"children"`
	Recursive bool           `json:"recursive,omitempty"`
}

type complexTypeView struct {
	Name     string         `json:"name"`
	Children []*elementView `json:"children"`
}

func viewOf(el *SchemaElement, ancestors map[*SchemaElement]bool) *elementView {
	v := &elementView{
		Name:      el.Name,
		Type:      el.Type,
		MinOccurs: el.MinOccurs,
		MaxOccurs: el.MaxOccurs,
	}
	if ancestors[el] {
		v.Recursive = true
		return v
	}

	ancestors[el] = true
	defer delete(ancestors, el)
	v.Children = viewsOf(el.Children, ancestors)
	return v
}

func viewsOf(elements []*SchemaElement, ancestors map[*SchemaElement]bool) []*elementView {
	out := make([]*elementView, 0, len(elements))
	for _, el := range elements {
		out = append(out, viewOf(el, ancestors))
	}
	return out
}

// MarshalJSON encodes the schema with recursive element references cut at
// their second appearance on a path.
func (s *ParsedSchema) MarshalJSON() ([]byte, error) {
	types := make(map[string]complexTypeView, len(s.ComplexTypes))
	for name, ct := range s.ComplexTypes {
		types[name] = complexTypeView{
			Name:     ct.Name,
			Children: viewsOf(ct.Children, make(map[*SchemaElement]bool)),
		}
	}

	return json.Marshal(struct {
		Elements        []*elementView             `json:"elements"`
		ComplexTypes    map[string]complexTypeView `json:"complexTypes"`
		SimpleTypes     map[string]ElementType     `json:"simpleTypes,omitempty"`
		TargetNamespace string                     `json:"targetNamespace"`
		Diagnostics     []Diagnostic               `json:"diagnostics,omitempty"`
	}{
		Elements:        viewsOf(s.Elements, make(map[*SchemaElement]bool)),
		ComplexTypes:    types,
		SimpleTypes:     s.SimpleTypes,
		TargetNamespace: s.TargetNamespace,
		Diagnostics:     s.Diagnostics,
	})
}
