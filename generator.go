package xsdgen

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxDepth bounds element nesting for recursive schemas.
	DefaultMaxDepth = 32

	maxListItems       = 3
	optionalOmitChance = 0.3
	eventListChance    = 0.7
)

// Generator synthesizes sample payloads from a ParsedSchema. A Generator owns
// its random source and is not safe for concurrent use.
type Generator struct {
	rng      *rand.Rand
	now      func() time.Time
	log      zerolog.Logger
	maxDepth int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes generation deterministic for the given seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithClock sets the clock that bounds generated dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger used for generation tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithMaxDepth caps element nesting. Complex elements below the cap are
// rendered as empty objects.
func WithMaxDepth(depth int) Option {
	return func(g *Generator) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// NewGenerator creates a generator seeded from the wall clock unless an
// option says otherwise.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now:      time.Now,
		log:      zerolog.Nop(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratePayload parses the filter, synthesizes the first root element of
// schema and renders it in the requested format ("json" or "xml").
func GeneratePayload(schema *ParsedSchema, filterText string, format string) (string, error) {
	return NewGenerator().GeneratePayload(schema, filterText, ParseFormat(format))
}

// GeneratePayload parses the filter, synthesizes and renders a payload.
func (g *Generator) GeneratePayload(schema *ParsedSchema, filterText string, format Format) (string, error) {
	filters := ParseFilterCondition(filterText)
	g.log.Debug().
		Bool("complex", filters.Complex).
		Int("constraints", len(filters.Constraints)).
		Int("simple", len(filters.Simple)).
		Msg("parsed filter")

	payload, err := g.Generate(schema, filters)
	if err != nil {
		return "", err
	}
	return Render(payload, format)
}

// Generate synthesizes the value tree for the first root element. The
// returned object has the root element name as its only key. The root is
// always present, even when it is declared optional.
func (g *Generator) Generate(schema *ParsedSchema, filters FilterSet) (*Object, error) {
	if schema == nil || len(schema.Elements) == 0 {
		return nil, &EmptySchemaError{}
	}
	root := schema.Elements[0]
	g.log.Debug().Str("root", root.Name).Msg("generating payload")

	payload := NewObject()
	payload.Set(root.Name, g.elementValue(root, filters, root.Name, 0))
	return payload, nil
}

// generateElement synthesizes one child element. The boolean result is false
// when an optional element was omitted, in which case the parent gets no key.
func (g *Generator) generateElement(el *SchemaElement, filters FilterSet, parentPath string, depth int) (any, bool) {
	path := el.Name
	if parentPath != "" {
		path = parentPath + "." + el.Name
	}

	if el.MinOccurs == "0" && g.rng.Float64() < optionalOmitChance {
		g.log.Debug().Str("path", path).Msg("skipping optional element")
		return nil, false
	}
	return g.elementValue(el, filters, path, depth), true
}

func (g *Generator) elementValue(el *SchemaElement, filters FilterSet, path string, depth int) any {
	if el.Type != TypeComplex || len(el.Children) == 0 {
		return g.scalarValue(el, filters, path)
	}

	if depth >= g.maxDepth {
		g.log.Debug().Str("path", path).Int("depth", depth).Msg("nesting limit reached")
		return NewObject()
	}

	if count, repeats := repeatCount(el.MaxOccurs); repeats {
		items := make([]any, 0, count)
		for range count {
			items = append(items, g.complexValue(el, filters, path, depth))
		}
		g.log.Debug().Str("path", path).Int("items", count).Msg("generated repeated element")
		return items
	}
	return g.complexValue(el, filters, path, depth)
}

// complexValue builds one object from the declared children in schema order.
func (g *Generator) complexValue(el *SchemaElement, filters FilterSet, path string, depth int) *Object {
	if el.Name == "EventList" && filters.Complex {
		if c, ok := filters.Constraint(OpNoEventsWithIDs); ok {
			return g.eventList(c)
		}
	}

	obj := NewObject()
	for _, child := range el.Children {
		if v, ok := g.generateElement(child, filters, path, depth+1); ok {
			obj.Set(child.Name, v)
		}
	}
	return obj
}

// eventList synthesizes an EventList under a no_events_with_ids constraint:
// usually empty, otherwise one or two events drawn from the allowed pool.
func (g *Generator) eventList(c Constraint) *Object {
	obj := NewObject()
	valid := without(allowedEventIDs, c.Values)
	if len(valid) == 0 || g.rng.Float64() <= eventListChance {
		return obj
	}

	n := 1 + g.rng.IntN(2)
	events := make([]any, 0, n)
	for range n {
		ev := NewObject()
		ev.Set("eventID", g.choice(valid))
		ev.Set("eventDate", g.dateValue())
		ev.Set("eventDescription", eventDescription)
		events = append(events, ev)
	}
	obj.Set("Event", events)
	return obj
}

func (g *Generator) scalarValue(el *SchemaElement, filters FilterSet, path string) any {
	if filters.Complex {
		if c, ok := matchConstraint(filters.Constraints, el.Name, path); ok {
			g.log.Debug().Str("path", path).Str("operator", string(c.Operator)).Msg("constraint matched")
			return g.constrainedValue(c)
		}
		return g.simpleValue(el.Name, el.Type)
	}
	if cond, ok := filters.Simple[el.Name]; ok {
		return g.filteredValue(el.Name, el.Type, cond)
	}
	return g.simpleValue(el.Name, el.Type)
}

// matchConstraint finds the first constraint that applies to a field. A
// constraint applies when its path, minus its root segment, ends with the
// field name, or when the current path, minus the same root segment, ends
// with the constraint's last segment. Both tests compare raw string
// suffixes, so unrelated fields whose names end the same way also match.
func matchConstraint(constraints []Constraint, field, path string) (Constraint, bool) {
	for _, c := range constraints {
		root, _, _ := strings.Cut(c.Path, ".")
		prefix := root + "."
		constraintPath := strings.TrimPrefix(c.Path, prefix)
		currentPath := strings.TrimPrefix(path, prefix)
		last := c.Path[strings.LastIndex(c.Path, ".")+1:]

		if strings.HasSuffix(constraintPath, field) || strings.HasSuffix(currentPath, last) {
			return c, true
		}
	}
	return Constraint{}, false
}

func (g *Generator) constrainedValue(c Constraint) any {
	switch c.Operator {
	case OpNotIn:
		valid := without(alternativeDeliveryTypes, c.Values)
		if len(valid) == 0 {
			return ""
		}
		return g.choice(valid)
	case OpEmpty:
		return ""
	case OpIn:
		if len(c.Values) == 0 {
			return ""
		}
		return g.choice(c.Values)
	case OpEquals:
		return c.Value
	case OpNoEventsWithIDs:
		// Events are shaped at the EventList level.
		return nil
	}
	return nil
}

// filteredValue produces a value honoring a simple filter condition.
func (g *Generator) filteredValue(field string, typ ElementType, cond Condition) any {
	switch cond.Operator {
	case CmpEqual:
		return cond.Value
	case CmpNotEqual:
		switch v := cond.Value.(type) {
		case bool:
			return !v
		case float64:
			return v + 1
		case string:
			return differentValueLiteral
		}
	case CmpLess, CmpLessEqual, CmpGreater, CmpGreaterEqual:
		v, ok := cond.Value.(float64)
		if ok && (typ == TypeInteger || typ == TypeDecimal) {
			return g.perturb(v, cond.Operator, typ)
		}
	}
	return g.simpleValue(field, typ)
}

// perturb moves v down (for < and <=) or up (for > and >=) by a random
// fraction of itself, clamped at zero and at the largest value the field's
// type can hold. Strict operators move by up to the whole value, inclusive
// ones by up to a tenth of it. Results are rounded toward the allowed side:
// whole units for integers, cents for decimals.
func (g *Generator) perturb(v float64, op Comparison, typ ElementType) any {
	r := g.rng.Float64()
	var x float64
	switch op {
	case CmpLess:
		x = math.Max(0, v-r*v)
	case CmpLessEqual:
		x = math.Max(0, v-r*(v*0.1))
	case CmpGreater:
		x = v + r*v
	case CmpGreaterEqual:
		x = v + r*(v*0.1)
	}

	x = math.Min(math.Max(0, x), math.MaxFloat64)

	down := op == CmpLess || op == CmpLessEqual
	if typ == TypeInteger {
		if x >= float64(math.MaxInt) {
			return math.MaxInt
		}
		if down {
			return int(math.Floor(x))
		}
		return int(math.Ceil(x))
	}
	// Past 2^53 a float64 no longer has cent resolution.
	if x >= 1<<53 {
		return x
	}
	if down {
		return math.Floor(x*100) / 100
	}
	return math.Ceil(x*100) / 100
}

// simpleValue synthesizes an unconstrained scalar from the element type and
// the field-name heuristics.
func (g *Generator) simpleValue(field string, typ ElementType) any {
	lower := strings.ToLower(field)
	switch typ {
	case TypeInteger:
		return firstMatch(g, integerRules, lower, defaultInteger)
	case TypeDecimal:
		return firstMatch(g, decimalRules, lower, defaultDecimal)
	case TypeBoolean:
		return g.rng.Float64() > 0.5
	case TypeDate:
		return g.dateValue()
	case TypeURI:
		return g.uriValue()
	case TypeBinary:
		return g.binaryValue()
	default:
		return firstMatch(g, stringRules, lower, genericValue)
	}
}

// repeatCount reports whether maxOccurs allows more than one occurrence and
// how many list items to synthesize when it does.
func repeatCount(maxOccurs string) (int, bool) {
	if maxOccurs == Unbounded {
		return maxListItems, true
	}
	n, err := strconv.Atoi(maxOccurs)
	if err != nil || n <= 1 {
		return 1, false
	}
	return min(maxListItems, n), true
}

func without(pool, excluded []string) []string {
	out := make([]string, 0, len(pool))
	for _, v := range pool {
		skip := false
		for _, e := range excluded {
			if v == e {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, v)
		}
	}
	return out
}
