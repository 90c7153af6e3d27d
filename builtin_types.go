package xsdgen

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BuiltinType represents a built-in XSD type
type BuiltinType struct {
	Name      string
	Kind      ElementType
	Validator func(value string) error
}

var builtinTypes = map[string]*BuiltinType{}

var (
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	datePattern    = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)
	timePattern    = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	gYearPattern   = regexp.MustCompile(`^-?\d{4,}(Z|[+-]\d{2}:\d{2})?$`)
)

func init() {
	registerBuiltinTypes()
}

func register(kind ElementType, validator func(string) error, names ...string) {
	for _, name := range names {
		builtinTypes[name] = &BuiltinType{Name: name, Kind: kind, Validator: validator}
	}
}

func registerBuiltinTypes() {
	// Strings
	register(TypeString, validateString,
		"string", "language", "Name", "NCName", "ID", "IDREF", "IDREFS",
		"ENTITY", "ENTITIES", "NMTOKEN", "NMTOKENS", "QName", "NOTATION", "duration")
	register(TypeString, validateNormalizedString, "normalizedString")
	register(TypeString, validateToken, "token")

	// Integers
	register(TypeInteger, validateInteger, "integer")
	register(TypeInteger, boundedInteger("", "0"), "nonPositiveInteger")
	register(TypeInteger, boundedInteger("", "-1"), "negativeInteger")
	register(TypeInteger, boundedInteger("0", ""), "nonNegativeInteger")
	register(TypeInteger, boundedInteger("1", ""), "positiveInteger")
	register(TypeInteger, boundedInteger("-9223372036854775808", "9223372036854775807"), "long")
	register(TypeInteger, boundedInteger("-2147483648", "2147483647"), "int")
	register(TypeInteger, boundedInteger("-32768", "32767"), "short")
	register(TypeInteger, boundedInteger("-128", "127"), "byte")
	register(TypeInteger, boundedInteger("0", "18446744073709551615"), "unsignedLong")
	register(TypeInteger, boundedInteger("0", "4294967295"), "unsignedInt")
	register(TypeInteger, boundedInteger("0", "65535"), "unsignedShort")
	register(TypeInteger, boundedInteger("0", "255"), "unsignedByte")

	// Decimals
	register(TypeDecimal, validateDecimal, "decimal")
	register(TypeDecimal, validateFloat, "float", "double")

	register(TypeBoolean, validateBoolean, "boolean")

	// Dates and times all synthesize as calendar dates
	register(TypeDate, validateDate, "date")
	register(TypeDate, validateDateTime, "dateTime")
	register(TypeDate, validateTime, "time")
	register(TypeDate, validateGYear, "gYear")
	register(TypeDate, validateString, "gYearMonth", "gMonth", "gMonthDay", "gDay")

	register(TypeURI, validateAnyURI, "anyURI")

	register(TypeBinary, validateBase64Binary, "base64Binary")
	register(TypeBinary, validateHexBinary, "hexBinary")
}

// GetBuiltinType returns a built-in type, or nil if the name is not one
func GetBuiltinType(name string) *BuiltinType {
	return builtinTypes[localName(name)]
}

// IsBuiltinType checks if a type is a built-in XSD type
func IsBuiltinType(name string) bool {
	return GetBuiltinType(name) != nil
}

// MapBuiltinType maps an XSD primitive to the reduced element type.
// Unrecognised primitives map to TypeString.
func MapBuiltinType(name string) ElementType {
	if bt := GetBuiltinType(name); bt != nil {
		return bt.Kind
	}
	return TypeString
}

// ValidateLexical checks value against the lexical space of the named
// built-in type. Unknown type names accept any value.
func ValidateLexical(typeName, value string) error {
	bt := GetBuiltinType(typeName)
	if bt == nil {
		return nil
	}
	return bt.Validator(value)
}

func validateString(value string) error {
	return nil
}

func validateNormalizedString(value string) error {
	if strings.ContainsAny(value, "\t\n\r") {
		return fmt.Errorf("invalid normalizedString value: %q", value)
	}
	return nil
}

func validateToken(value string) error {
	if err := validateNormalizedString(value); err != nil {
		return err
	}
	if strings.HasPrefix(value, " ") || strings.HasSuffix(value, " ") || strings.Contains(value, "  ") {
		return fmt.Errorf("invalid token value: %q", value)
	}
	return nil
}

func validateBoolean(value string) error {
	switch value {
	case "true", "false", "1", "0":
		return nil
	default:
		return fmt.Errorf("invalid boolean value: %s", value)
	}
}

func validateDecimal(value string) error {
	if !decimalPattern.MatchString(value) {
		return fmt.Errorf("invalid decimal value: %s", value)
	}
	if _, _, err := new(big.Float).Parse(value, 10); err != nil {
		return fmt.Errorf("invalid decimal value: %s", value)
	}
	return nil
}

func validateFloat(value string) error {
	switch value {
	case "INF", "+INF", "-INF", "NaN":
		return nil
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return fmt.Errorf("invalid float value: %s", value)
	}
	return nil
}

func validateDate(value string) error {
	if !datePattern.MatchString(value) {
		return fmt.Errorf("invalid date value: %s", value)
	}
	datePart := value
	if strings.HasSuffix(value, "Z") {
		datePart = value[:len(value)-1]
	} else if len(value) >= 6 && (value[len(value)-6] == '+' || value[len(value)-6] == '-') && value[len(value)-3] == ':' {
		datePart = value[:len(value)-6]
	}
	// Years before 0001 pass on pattern alone
	if strings.HasPrefix(datePart, "-") {
		return nil
	}
	if _, err := time.Parse("2006-01-02", datePart); err != nil {
		return fmt.Errorf("invalid date value: %s", value)
	}
	return nil
}

func validateDateTime(value string) error {
	idx := strings.Index(value, "T")
	if idx < 0 {
		return fmt.Errorf("invalid dateTime value: %s", value)
	}
	if err := validateDate(value[:idx]); err != nil {
		return fmt.Errorf("invalid dateTime value: %s", value)
	}
	if err := validateTime(value[idx+1:]); err != nil {
		return fmt.Errorf("invalid dateTime value: %s", value)
	}
	return nil
}

func validateTime(value string) error {
	if !timePattern.MatchString(value) {
		return fmt.Errorf("invalid time value: %s", value)
	}
	hour, _ := strconv.Atoi(value[0:2])
	minute, _ := strconv.Atoi(value[3:5])
	second, _ := strconv.Atoi(value[6:8])
	if hour > 23 || minute > 59 || second > 59 {
		return fmt.Errorf("invalid time value: %s", value)
	}
	return nil
}

func validateGYear(value string) error {
	if !gYearPattern.MatchString(value) {
		return fmt.Errorf("invalid gYear value: %s", value)
	}
	return nil
}

func validateAnyURI(value string) error {
	if strings.ContainsAny(value, " \t\n\r") {
		return fmt.Errorf("invalid anyURI value: %q", value)
	}
	return nil
}

func validateBase64Binary(value string) error {
	if _, err := base64.StdEncoding.DecodeString(value); err != nil {
		return fmt.Errorf("invalid base64Binary value: %s", value)
	}
	return nil
}

func validateHexBinary(value string) error {
	if _, err := hex.DecodeString(value); err != nil {
		return fmt.Errorf("invalid hexBinary value: %s", value)
	}
	return nil
}

func validateInteger(value string) error {
	if _, ok := new(big.Int).SetString(value, 10); !ok {
		return fmt.Errorf("invalid integer value: %s", value)
	}
	return nil
}

// boundedInteger returns an integer validator with optional inclusive bounds.
// An empty bound is open.
func boundedInteger(lower, upper string) func(string) error {
	var lo, hi *big.Int
	if lower != "" {
		lo, _ = new(big.Int).SetString(lower, 10)
	}
	if upper != "" {
		hi, _ = new(big.Int).SetString(upper, 10)
	}
	return func(value string) error {
		n, ok := new(big.Int).SetString(strings.TrimPrefix(value, "+"), 10)
		if !ok {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if lo != nil && n.Cmp(lo) < 0 {
			return fmt.Errorf("value %s is below minimum %s", value, lower)
		}
		if hi != nil && n.Cmp(hi) > 0 {
			return fmt.Errorf("value %s is above maximum %s", value, upper)
		}
		return nil
	}
}
