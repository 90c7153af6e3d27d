package xsdgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Format is a payload output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// ParseFormat maps a format name to a Format. Anything other than "xml"
// (case-insensitive) is JSON.
func ParseFormat(name string) Format {
	if strings.EqualFold(strings.TrimSpace(name), string(FormatXML)) {
		return FormatXML
	}
	return FormatJSON
}

// Render serializes a generated payload. The payload's first key names the
// root element.
func Render(payload *Object, format Format) (string, error) {
	if format == FormatXML {
		return RenderXML(payload), nil
	}
	return RenderJSON(payload)
}

// RenderJSON pretty-prints the payload with two-space indentation. HTML
// characters are left unescaped.
func RenderJSON(payload *Object) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// RenderXML renders the payload as an XML document. Each field becomes an
// element on its own line; repeated elements become sibling elements sharing
// the field name. Output is not indented.
func RenderXML(payload *Object) string {
	var sb strings.Builder
	sb.WriteString(xmlDeclaration)
	if payload == nil || payload.Len() == 0 {
		return sb.String()
	}
	root := payload.keys[0]
	writeXML(&sb, root, payload.values[root])
	return sb.String()
}

func writeXML(sb *strings.Builder, name string, value any) {
	switch v := value.(type) {
	case []any:
		for i, item := range v {
			if i > 0 {
				sb.WriteByte('\n')
			}
			writeXML(sb, name, item)
		}
	case *Object:
		sb.WriteString("<" + name + ">")
		for _, key := range v.keys {
			sb.WriteByte('\n')
			writeXML(sb, key, v.values[key])
		}
		sb.WriteString("\n</" + name + ">")
	default:
		sb.WriteString("<" + name + ">" + escapeXML(scalarText(v)) + "</" + name + ">")
	}
}

func scalarText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
