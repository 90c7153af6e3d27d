package xsdgen

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// rule pairs a predicate on a lowercased field name with the generator used
// when it matches. Rule lists are evaluated in order and the first match wins.
type rule[T any] struct {
	name  string
	match func(field string) bool
	gen   func(g *Generator, field string) T
}

func firstMatch[T any](g *Generator, rules []rule[T], field string, fallback func(*Generator, string) T) T {
	for _, r := range rules {
		if r.match(field) {
			return r.gen(g, field)
		}
	}
	return fallback(g, field)
}

func contains(words ...string) func(string) bool {
	return func(field string) bool {
		for _, w := range words {
			if strings.Contains(field, w) {
				return true
			}
		}
		return false
	}
}

func both(a, b func(string) bool) func(string) bool {
	return func(field string) bool { return a(field) && b(field) }
}

func fromPool(pool []string) func(*Generator, string) string {
	return func(g *Generator, _ string) string { return g.choice(pool) }
}

func prefixed(prefix string, digits int) func(*Generator, string) string {
	return func(g *Generator, _ string) string { return prefix + g.digits(digits) }
}

func codeOf(n int) func(*Generator, string) string {
	return func(g *Generator, _ string) string { return g.code(n) }
}

func intIn(lo, hi int) func(*Generator, string) int {
	return func(g *Generator, _ string) int { return g.between(lo, hi) }
}

func decimal(scale, offset float64, places int) func(*Generator, string) float64 {
	return func(g *Generator, _ string) float64 {
		return round(g.rng.Float64()*scale+offset, places)
	}
}

var nameRules = []rule[string]{
	{"product", contains("product", "item", "article"), fromPool(products)},
	{"company", contains("company", "partner", "organization"), fromPool(companies)},
	{"first name", contains("first", "given"), fromPool(firstNames)},
	{"last name", contains("last", "family", "surname"), fromPool(lastNames)},
}

var numberRules = []rule[string]{
	{"delivery", contains("delivery"), prefixed("DN", 8)},
	// Reached only when "delivery" is absent from the name.
	{"parent", contains("parent"), func(*Generator, string) string { return "" }},
	{"sales order", contains("order", "sales"), prefixed("SO", 8)},
	{"invoice", contains("invoice"), prefixed("INV", 7)},
	{"phone", contains("phone", "fax"), func(g *Generator, _ string) string { return g.phone() }},
	{"house", contains("house", "street"), func(g *Generator, _ string) string { return strconv.Itoa(g.between(1, 999)) }},
	{"article", contains("article", "material", "sku"), prefixed("ART", 6)},
	{"reference", contains("ref"), prefixed("REF", 8)},
	{"tracking", contains("tracking", "bol"), prefixed("TRK", 10)},
	{"account", contains("account"), prefixed("ACC", 8)},
}

var codeRules = []rule[string]{
	{"postal", contains("post", "zip"), func(g *Generator, _ string) string { return g.postalCode() }},
	{"region", contains("region", "state"), fromPool(regionCodes)},
	{"currency", contains("currency"), fromPool(currencies)},
	{"size", contains("size"), fromPool(sizeCodes)},
	{"brand", contains("brand", "product"), codeOf(3)},
}

var descriptionRules = []rule[string]{
	{"product", contains("product", "item"), func(g *Generator, _ string) string {
		return g.choice(productAdjectives) + " " + g.choice(productNouns)
	}},
	{"delivery", contains("delivery", "shipping"), fromPool(deliveryDescriptions)},
	{"reason", contains("reason", "comment"), fromPool(reasonDescriptions)},
}

var genericRules = []rule[string]{
	{"key", contains("key", "value"), codeOf(6)},
	{"version", contains("version", "level"), func(g *Generator, _ string) string { return strconv.Itoa(g.between(1, 10)) }},
	{"category", contains("category", "class"), fromPool(categories)},
}

// stringRules maps field names to string generators. Order matters: "name"
// and the number-like tokens are checked before the delivery vocabularies,
// and the generic id/identifier rule sits after the more specific ones.
var stringRules = []rule[string]{
	{"name", contains("name"), func(g *Generator, field string) string {
		return firstMatch(g, nameRules, field, fromPool(personNames))
	}},
	{"number", contains("number", "no", "nbr"), func(g *Generator, field string) string {
		return firstMatch(g, numberRules, field, func(g *Generator, _ string) string { return g.digits(8) })
	}},
	{"delivery type", contains("deliverytype", "delivery_type"), fromPool(deliveryTypes)},
	{"distribution center", contains("distributioncenter", "distribution_center"), fromPool(distributionCenters)},
	{"storage location", contains("storagelocation", "storage_location"), fromPool(storageLocations)},
	{"event id", contains("eventid", "event_id"), fromPool(eventIDs)},
	{"email", contains("email"), func(g *Generator, _ string) string { return g.email() }},
	{"address", contains("address", "street"), func(g *Generator, _ string) string {
		return strconv.Itoa(g.between(1, 9999)) + " " + g.choice(streets)
	}},
	{"city", contains("city"), fromPool(cities)},
	{"country", contains("country"), func(g *Generator, field string) string {
		if strings.Contains(field, "code") {
			return g.choice(countryCodes)
		}
		return g.choice(countries)
	}},
	{"code", contains("code", "cd"), func(g *Generator, field string) string {
		return firstMatch(g, codeRules, field, func(g *Generator, _ string) string { return g.code(g.between(3, 6)) })
	}},
	{"status", contains("status"), fromPool(statuses)},
	{"type", contains("type"), fromPool(typeNames)},
	{"currency", contains("currency"), fromPool(currencies)},
	{"description", contains("description", "desc", "text"), func(g *Generator, field string) string {
		return firstMatch(g, descriptionRules, field, fromPool(genericDescriptions))
	}},
	{"identifier", contains("id", "identifier"), codeOf(8)},
	{"title", contains("title"), fromPool(titles)},
	{"indicator", contains("indicator", "flag"), fromPool(indicators)},
	{"department", contains("division", "department"), fromPool(departments)},
	{"unit", contains("unit", "uom"), fromPool(units)},
}

func genericValue(g *Generator, field string) string {
	return firstMatch(g, genericRules, field, codeOf(6))
}

var quantityRules = []rule[int]{
	{"ordered", contains("ordered", "confirmed"), intIn(1, 100)},
	{"carton", contains("carton", "case"), intIn(1, 50)},
}

var integerRules = []rule[int]{
	{"age", contains("age"), intIn(20, 69)},
	{"year", contains("year"), intIn(1995, 2024)},
	{"line count", both(contains("count", "number"), contains("line", "item")), intIn(1, 20)},
	{"total count", both(contains("count", "number"), contains("total", "sum")), intIn(100, 1099)},
	{"quantity", contains("quantity", "qty"), func(g *Generator, field string) int {
		return firstMatch(g, quantityRules, field, intIn(1, 500))
	}},
	{"index", contains("index", "level"), intIn(1, 10)},
	{"lead time", both(contains("time"), contains("processing", "lead")), intIn(1, 48)},
	{"days", contains("days"), intIn(1, 30)},
	{"packages", contains("package", "parcel"), intIn(1, 20)},
}

func defaultInteger(g *Generator, _ string) int {
	return g.between(1, 1000)
}

var totalField = contains("total", "sum")

var decimalRules = []rule[float64]{
	{"price", contains("price", "cost", "amount"), func(g *Generator, field string) float64 {
		if totalField(field) {
			return decimal(5000, 100, 2)(g, field)
		}
		return decimal(500, 10, 2)(g, field)
	}},
	{"weight", contains("weight"), func(g *Generator, field string) float64 {
		if contains("total", "gross")(field) {
			return decimal(1000, 50, 2)(g, field)
		}
		return decimal(100, 1, 2)(g, field)
	}},
	{"volume", contains("volume"), decimal(50, 0.1, 3)},
	{"dimension", contains("length", "width", "height"), decimal(200, 10, 2)},
	{"rate", contains("rate", "percentage"), decimal(100, 0, 2)},
	{"quantity", contains("quantity", "qty"), decimal(1000, 1, 2)},
	{"processing time", both(contains("time"), contains("processing")), decimal(24, 0.5, 2)},
}

func defaultDecimal(g *Generator, field string) float64 {
	return decimal(1000, 0, 2)(g, field)
}

var dateEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateValue returns a calendar date between 2020-01-01 and now.
func (g *Generator) dateValue() string {
	now := g.now().UTC()
	if !now.After(dateEpoch) {
		return dateEpoch.Format(time.DateOnly)
	}
	days := int(now.Sub(dateEpoch).Hours() / 24)
	return dateEpoch.AddDate(0, 0, g.rng.IntN(days+1)).Format(time.DateOnly)
}

func (g *Generator) uriValue() string {
	return "https://" + g.choice(uriHosts) + "/" + g.choice(uriSegments) + "/" + strings.ToLower(g.code(8))
}

// binaryValue renders 12 random bytes as upper-case hex. The 24 characters
// are also a padding-free base64 string, so the text is valid for both
// xs:hexBinary and xs:base64Binary.
func (g *Generator) binaryValue() string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = byte(g.rng.IntN(256))
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

func (g *Generator) email() string {
	return fmt.Sprintf("%s%d@%s", g.choice(emailUsers), g.rng.IntN(100), g.choice(emailDomains))
}

func (g *Generator) phone() string {
	area, exchange, line := g.between(100, 999), g.between(100, 999), g.between(1000, 9999)
	switch g.rng.IntN(3) {
	case 0:
		return fmt.Sprintf("+1-%d-%d-%d", area, exchange, line)
	case 1:
		return fmt.Sprintf("(%d) %d-%d", area, exchange, line)
	default:
		return fmt.Sprintf("%d.%d.%d", area, exchange, line)
	}
}

func (g *Generator) postalCode() string {
	switch g.rng.IntN(3) {
	case 0:
		return strconv.Itoa(g.between(10000, 99999))
	case 1:
		return fmt.Sprintf("%c%c%d", 'A'+rune(g.rng.IntN(26)), 'A'+rune(g.rng.IntN(26)), g.between(10, 99))
	default:
		return fmt.Sprintf("%d-%d", g.between(10000, 99999), g.between(1000, 9999))
	}
}

// choice picks a uniformly random element of a non-empty pool.
func (g *Generator) choice(pool []string) string {
	return pool[g.rng.IntN(len(pool))]
}

// between returns a uniformly random integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + g.rng.IntN(10))
	}
	return string(b)
}

func (g *Generator) code(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[g.rng.IntN(len(codeAlphabet))]
	}
	return string(b)
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
