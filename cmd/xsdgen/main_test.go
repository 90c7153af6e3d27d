package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

type fakePrompter struct {
	filter string
	format string
	err    error
	asked  []string
}

func (f *fakePrompter) Input(message, _ string) (string, error) {
	f.asked = append(f.asked, message)
	return f.filter, f.err
}

func (f *fakePrompter) Select(message string, _ []string, _ string) (string, error) {
	f.asked = append(f.asked, message)
	return f.format, f.err
}

func run(t *testing.T, p prompter, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&app{prompter: p})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerateCommand(t *testing.T) {
	out, _, err := run(t, nil, "generate", "../../testdata/order.xsd", "--seed", "5", "--filter", "price < 50")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if price := gjson.Get(out, "Order.price").Float(); price < 0 || price >= 50 {
		t.Errorf("price = %v, want below 50", price)
	}

	again, _, err := run(t, nil, "generate", "../../testdata/order.xsd", "--seed", "5", "--filter", "price < 50")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if again != out {
		t.Errorf("seeded runs differ:\n%s\n%s", out, again)
	}
}

func TestGenerateCommandXMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delivery.xml")
	out, _, err := run(t, nil, "generate", "../../testdata/delivery.xsd", "--format", "xml", "--seed", "1", "-o", path)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing when writing to a file", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`+"\n<Delivery>") {
		t.Errorf("output = %.80s", data)
	}
}

func TestGenerateCommandInteractive(t *testing.T) {
	p := &fakePrompter{filter: "inStock = false", format: "xml"}
	out, _, err := run(t, p, "generate", "../../testdata/order.xsd", "-i", "--seed", "2")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(p.asked) != 2 {
		t.Errorf("asked %d questions, want 2", len(p.asked))
	}
	if !strings.Contains(out, "<inStock>false</inStock>") {
		t.Errorf("output does not honor the prompted filter:\n%s", out)
	}

	// Flags that were given explicitly are not asked for.
	p = &fakePrompter{format: "json"}
	if _, _, err := run(t, p, "generate", "../../testdata/order.xsd", "-i", "--filter", "", "--seed", "2"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(p.asked) != 1 {
		t.Errorf("asked %v, want only the format", p.asked)
	}
}

func TestGenerateCommandAborted(t *testing.T) {
	_, _, err := run(t, &fakePrompter{err: errAborted}, "generate", "../../testdata/order.xsd", "-i")
	if !errors.Is(err, errAborted) {
		t.Errorf("error = %v, want errAborted", err)
	}
}

func TestParseCommand(t *testing.T) {
	out, stderr, err := run(t, nil, "parse", "../../testdata/delivery.xsd", "--log-level", "debug")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := gjson.Get(out, "elements.0.name").String(); got != "Delivery" {
		t.Errorf("root = %q, want Delivery", got)
	}
	if !strings.Contains(stderr, "Schema parsed") {
		t.Errorf("debug log missing parse entry:\n%s", stderr)
	}
}

func TestParseCommandMissingFile(t *testing.T) {
	if _, _, err := run(t, nil, "parse", "does-not-exist.xsd"); err == nil {
		t.Error("parse of a missing file succeeded")
	}
}

func TestConfigErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("generator:\n  format: csv\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid config file", []string{"--config", bad, "generate", "../../testdata/order.xsd"}, "generator.format"},
		{"invalid log level flag", []string{"--log-level", "loud", "parse", "../../testdata/order.xsd"}, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, nil, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
