package xsdgen

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"
)

func inPool(pool []string) func(any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		return ok && slices.Contains(pool, s)
	}
}

func matches(pattern string) func(any) bool {
	re := regexp.MustCompile(pattern)
	return func(v any) bool {
		s, ok := v.(string)
		return ok && re.MatchString(s)
	}
}

func intRange(lo, hi int) func(any) bool {
	return func(v any) bool {
		n, ok := v.(int)
		return ok && n >= lo && n <= hi
	}
}

func floatRange(lo, hi float64) func(any) bool {
	return func(v any) bool {
		f, ok := v.(float64)
		return ok && f >= lo && f <= hi
	}
}

func TestSimpleValueStringHeuristics(t *testing.T) {
	tests := []struct {
		field string
		check func(any) bool
	}{
		{"CustomerName", inPool(personNames)},
		{"CompanyName", inPool(companies)},
		{"ProductName", inPool(products)},
		{"FirstName", inPool(firstNames)},
		{"LastName", inPool(lastNames)},
		{"DeliveryNumber", matches(`^DN\d{8}$`)},
		{"ParentDeliveryNumber", matches(`^DN\d{8}$`)},
		{"ParentNo", func(v any) bool { return v == "" }},
		{"SalesOrderNumber", matches(`^SO\d{8}$`)},
		{"InvoiceNumber", matches(`^INV\d{7}$`)},
		{"PhoneNumber", matches(`^(\+1-\d{3}-\d{3}-\d{4}|\(\d{3}\) \d{3}-\d{4}|\d{3}\.\d{3}\.\d{4})$`)},
		{"TrackingNumber", matches(`^TRK\d{10}$`)},
		{"SerialNbr", matches(`^\d{8}$`)},
		{"DeliveryType", inPool(deliveryTypes)},
		{"DistributionCenter", inPool(distributionCenters)},
		{"StorageLocation", inPool(storageLocations)},
		{"EventID", inPool(eventIDs)},
		{"Email", matches(`^[a-z]+\d{1,2}@[a-z.]+$`)},
		{"StreetAddress", matches(`^\d{1,4} [A-Za-z ]+$`)},
		{"City", inPool(cities)},
		{"CountryCode", inPool(countryCodes)},
		{"Country", inPool(countries)},
		{"PostalCode", matches(`^(\d{5}|[A-Z]{2}\d{2}|\d{5}-\d{4})$`)},
		{"RegionCode", inPool(regionCodes)},
		{"CurrencyCode", inPool(currencies)},
		{"Status", inPool(statuses)},
		{"ShipmentType", inPool(typeNames)},
		{"ItemDescription", func(v any) bool {
			adj, noun, ok := strings.Cut(v.(string), " ")
			return ok && slices.Contains(productAdjectives, adj) && slices.Contains(productNouns, noun)
		}},
		{"ShippingDescription", inPool(deliveryDescriptions)},
		{"ReasonText", inPool(reasonDescriptions)},
		{"OrderId", matches(`^[A-Z0-9]{8}$`)},
		{"Title", inPool(titles)},
		{"UrgentFlag", inPool(indicators)},
		{"Department", inPool(departments)},
		{"UnitOfMeasure", inPool(units)},
		{"Version", intText(1, 10)},
		{"Category", inPool(categories)},
		{"Foo", matches(`^[A-Z0-9]{6}$`)},
	}

	g := seeded(17)
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			for range 50 {
				if got := g.simpleValue(tt.field, TypeString); !tt.check(got) {
					t.Fatalf("simpleValue(%q) = %#v", tt.field, got)
				}
			}
		})
	}
}

func intText(lo, hi int) func(any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		n, err := strconv.Atoi(s)
		return err == nil && n >= lo && n <= hi
	}
}

func TestSimpleValueNumericHeuristics(t *testing.T) {
	tests := []struct {
		field string
		typ   ElementType
		check func(any) bool
	}{
		{"Age", TypeInteger, intRange(20, 69)},
		{"ModelYear", TypeInteger, intRange(1995, 2024)},
		{"LineCount", TypeInteger, intRange(1, 20)},
		{"ItemNumber", TypeInteger, intRange(1, 20)},
		{"TotalCount", TypeInteger, intRange(100, 1099)},
		{"Quantity", TypeInteger, intRange(1, 500)},
		{"OrderedQuantity", TypeInteger, intRange(1, 100)},
		{"CartonQty", TypeInteger, intRange(1, 50)},
		{"Index", TypeInteger, intRange(1, 10)},
		{"LeadTime", TypeInteger, intRange(1, 48)},
		{"TransitDays", TypeInteger, intRange(1, 30)},
		{"ParcelCount", TypeInteger, intRange(1, 20)},
		{"Sequence", TypeInteger, intRange(1, 1000)},
		{"UnitPrice", TypeDecimal, floatRange(10, 510)},
		{"TotalAmount", TypeDecimal, floatRange(100, 5100)},
		{"NetWeight", TypeDecimal, floatRange(1, 101)},
		{"GrossWeight", TypeDecimal, floatRange(50, 1050)},
		{"Volume", TypeDecimal, floatRange(0.1, 50.1)},
		{"Height", TypeDecimal, floatRange(10, 210)},
		{"TaxRate", TypeDecimal, floatRange(0, 100)},
		{"Qty", TypeDecimal, floatRange(1, 1001)},
		{"ProcessingTime", TypeDecimal, floatRange(0.5, 24.5)},
		{"Other", TypeDecimal, floatRange(0, 1000)},
	}

	g := seeded(23)
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			for range 200 {
				if got := g.simpleValue(tt.field, tt.typ); !tt.check(got) {
					t.Fatalf("simpleValue(%q, %s) = %#v", tt.field, tt.typ, got)
				}
			}
		})
	}
}

func TestSimpleValueDecimalPlaces(t *testing.T) {
	g := seeded(29)
	for range 500 {
		v := g.simpleValue("UnitPrice", TypeDecimal).(float64)
		if v != round(v, 2) {
			t.Fatalf("UnitPrice = %v has more than two decimal places", v)
		}
	}
}

func TestDateValue(t *testing.T) {
	g := seeded(31)
	for range 500 {
		day, err := time.Parse(time.DateOnly, g.dateValue())
		if err != nil {
			t.Fatalf("dateValue() is not a calendar date: %v", err)
		}
		if day.Before(dateEpoch) || day.After(fixedNow) {
			t.Fatalf("dateValue() = %s outside the allowed range", day.Format(time.DateOnly))
		}
	}

	early := NewGenerator(WithSeed(1), WithClock(func() time.Time {
		return time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC)
	}))
	if got := early.dateValue(); got != "2020-01-01" {
		t.Errorf("dateValue() with a clock before the epoch = %s, want 2020-01-01", got)
	}
}

func TestRepeatCount(t *testing.T) {
	tests := []struct {
		maxOccurs string
		want      int
		repeats   bool
	}{
		{"", 1, false},
		{"1", 1, false},
		{"0", 1, false},
		{"2", 2, true},
		{"3", 3, true},
		{"10", 3, true},
		{Unbounded, 3, true},
		{"many", 1, false},
	}
	for _, tt := range tests {
		got, repeats := repeatCount(tt.maxOccurs)
		if got != tt.want || repeats != tt.repeats {
			t.Errorf("repeatCount(%q) = %d, %v, want %d, %v", tt.maxOccurs, got, repeats, tt.want, tt.repeats)
		}
	}
}

func TestWithout(t *testing.T) {
	got := without(alternativeDeliveryTypes, []string{"ZNF", "ZLR"})
	if slices.Contains(got, "ZNF") || len(got) != len(alternativeDeliveryTypes)-1 {
		t.Errorf("without() = %v", got)
	}
	if len(without(allowedEventIDs, allowedEventIDs)) != 0 {
		t.Error("excluding the whole pool left values behind")
	}
}

func TestBinaryValue(t *testing.T) {
	g := seeded(37)
	for range 100 {
		v := g.binaryValue()
		for _, typeName := range []string{"xs:hexBinary", "xs:base64Binary"} {
			if err := ValidateLexical(typeName, v); err != nil {
				t.Fatalf("binaryValue() = %q: %v", v, err)
			}
		}
	}
}
