package xsdgen

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// Diagnostic represents a rustc-style schema diagnostic
type Diagnostic struct {
	Severity  Severity `json:"severity"`
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Position  Position `json:"position"`
	Tag       string   `json:"tag"`
	Attribute string   `json:"attribute,omitempty"`
	Hints     []string `json:"hints,omitempty"`
}

// Severity represents the severity level of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic codes. Every one of them marks a degradation the parser
// tolerates rather than a failure.
const (
	CodeUnresolvedType = "W100"
	CodeElementRef     = "W101"
	CodeUnnamedElement = "W102"
	CodeUnsupported    = "W103"
)

// Position contains source position information for a node
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int64  `json:"offset"`
}

func newDiagnostic(file string, elem xmldom.Element, attribute string, severity Severity, code, message string, hints ...string) Diagnostic {
	return Diagnostic{
		Severity:  severity,
		Code:      code,
		Message:   message,
		Position:  positionOf(file, elem, attribute),
		Tag:       tagOf(elem),
		Attribute: attribute,
		Hints:     hints,
	}
}

// positionOf gets the position of an element or one of its attributes
func positionOf(file string, elem xmldom.Element, attrName string) Position {
	if elem == nil {
		return Position{File: file}
	}

	if attrName != "" {
		if attr := elem.GetAttributeNode(xmldom.DOMString(attrName)); attr != nil {
			line, col, offset := attr.Position()
			if line > 0 {
				return Position{File: file, Line: line, Column: col, Offset: offset}
			}
		}
	}

	line, col, offset := elem.Position()
	return Position{File: file, Line: line, Column: col, Offset: offset}
}

func tagOf(elem xmldom.Element) string {
	if elem == nil {
		return ""
	}
	return string(elem.LocalName())
}

// Warnings returns the diagnostics of warning severity.
func (s *ParsedSchema) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range s.Diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// ErrorFormatter provides rustc-style diagnostic formatting
type ErrorFormatter struct {
	Color bool
}

// Format formats a diagnostic in rustc style, quoting the offending source
// line when source is available.
func (ef *ErrorFormatter) Format(diag Diagnostic, source string) string {
	var sb strings.Builder

	severity := string(diag.Severity)
	if ef.Color {
		switch diag.Severity {
		case SeverityError:
			severity = "\033[31;1merror\033[0m"
		case SeverityWarning:
			severity = "\033[33;1mwarning\033[0m"
		case SeverityInfo:
			severity = "\033[36;1minfo\033[0m"
		}
	}

	sb.WriteString(fmt.Sprintf("%s[%s]: %s\n", severity, diag.Code, diag.Message))
	sb.WriteString(fmt.Sprintf(" --> %s:%d:%d\n", diag.Position.File, diag.Position.Line, diag.Position.Column))

	if source != "" && diag.Position.Line > 0 {
		lines := strings.Split(source, "\n")
		if diag.Position.Line <= len(lines) {
			sb.WriteString(fmt.Sprintf("%4d | ", diag.Position.Line))
			sb.WriteString(lines[diag.Position.Line-1] + "\n")

			sb.WriteString("     | ")
			if diag.Position.Column > 0 {
				sb.WriteString(strings.Repeat(" ", diag.Position.Column-1))
				if ef.Color {
					sb.WriteString("\033[33;1m^\033[0m")
				} else {
					sb.WriteString("^")
				}
				if diag.Attribute != "" {
					sb.WriteString(strings.Repeat("~", len(diag.Attribute)))
				}
			}
			sb.WriteString("\n")
		}
	}

	if len(diag.Hints) > 0 {
		sb.WriteString("     |\n")
		for _, hint := range diag.Hints {
			sb.WriteString("     = help: " + hint + "\n")
		}
	}

	return sb.String()
}
