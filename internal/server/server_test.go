package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/agentflare-ai/go-xsdgen/internal/config"
	"github.com/agentflare-ai/go-xsdgen/internal/logger"
)

const orderSchema = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
	<xs:element name="Order">
		<xs:complexType>
			<xs:sequence>
				<xs:element name="Id" type="xs:string"/>
				<xs:element name="price" type="xs:decimal"/>
				<xs:element name="inStock" type="xs:boolean"/>
			</xs:sequence>
		</xs:complexType>
	</xs:element>
</xs:schema>`

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(&cfg)
	}
	clock := func() time.Time { return time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC) }
	return New(cfg, logger.Nop(), WithClock(clock))
}

func post(t *testing.T, h http.Handler, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("Failed to encode request: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(newTestServer(t).Handler(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"healthy","service":"xsdgen"}` {
		t.Errorf("body = %s", got)
	}
}

func TestParseEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := post(t, h, "/v1/parse", map[string]string{"schema": orderSchema})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if got := gjson.Get(body, "elements.0.name").String(); got != "Order" {
		t.Errorf("root = %q, want Order", got)
	}
	if got := gjson.Get(body, "elements.0.children.#.name").String(); got != `["Id","price","inStock"]` {
		t.Errorf("children = %s", got)
	}
	if id := rec.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request id = %q, want a UUID", id)
	}
}

func TestGenerateEndpointJSON(t *testing.T) {
	h := newTestServer(t).Handler()
	req := map[string]any{"schema": orderSchema, "filter": "price < 100 and inStock = true", "seed": 7}

	first := post(t, h, "/v1/generate", req)
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", first.Code, first.Body)
	}
	if ct := first.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := first.Body.String()
	if price := gjson.Get(body, "Order.price").Float(); price < 0 || price >= 100 {
		t.Errorf("price = %v, want below 100", price)
	}
	if !gjson.Get(body, "Order.inStock").Bool() {
		t.Error("inStock = false")
	}

	second := post(t, h, "/v1/generate", req)
	if second.Body.String() != body {
		t.Errorf("seeded responses differ:\n%s\n%s", body, second.Body)
	}
}

func TestGenerateEndpointXMLWithFilter(t *testing.T) {
	schema, err := os.ReadFile("../../testdata/delivery.xsd")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	filter := `$Start/ns21:Delivery[ns21:DeliveryItemList/ns21:DeliveryItem/ns21:StorageLocation='0001']`

	h := newTestServer(t).Handler()
	rec := post(t, h, "/v1/generate", map[string]any{
		"schema": string(schema),
		"filter": filter,
		"format": "xml",
		"seed":   3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("body does not start with an XML declaration: %.60s", body)
	}
	if n := strings.Count(body, "<StorageLocation>0001</StorageLocation>"); n != 3 {
		t.Errorf("found %d constrained storage locations, want 3", n)
	}
}

func TestGenerateEndpointDefaultFormat(t *testing.T) {
	h := newTestServer(t, func(c *config.Config) { c.Generator.Format = "xml" }).Handler()
	rec := post(t, h, "/v1/generate", map[string]any{"schema": orderSchema})
	if !strings.HasPrefix(rec.Body.String(), "<?xml") {
		t.Errorf("body = %.60s, want XML from the configured default", rec.Body)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"malformed schema", "/v1/parse", map[string]string{"schema": "<xs:schema"}, http.StatusBadRequest},
		{"no schema root", "/v1/generate", map[string]string{"schema": "<catalog/>"}, http.StatusBadRequest},
		{"schema without elements", "/v1/generate", map[string]string{"schema": `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"/>`}, http.StatusBadRequest},
		{"invalid json", "/v1/generate", "{not json", http.StatusBadRequest},
		{"oversized body", "/v1/parse", map[string]string{"schema": strings.Repeat("x", 512)}, http.StatusRequestEntityTooLarge},
	}

	h := newTestServer(t, func(c *config.Config) { c.Server.MaxBodyBytes = 256 }).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body, RequestIDHeader, "req-42")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tt.status, rec.Body)
			}
			body := rec.Body.String()
			if gjson.Get(body, "error").String() == "" {
				t.Errorf("missing error message: %s", body)
			}
			if got := gjson.Get(body, "request_id").String(); got != "req-42" {
				t.Errorf("request_id = %q, want req-42", got)
			}
			if got := rec.Header().Get(RequestIDHeader); got != "req-42" {
				t.Errorf("%s header = %q", RequestIDHeader, got)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := get(newTestServer(t).Handler(), "/v1/generate")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()
	post(t, h, "/v1/parse", map[string]string{"schema": orderSchema})
	post(t, h, "/v1/generate", map[string]any{"schema": orderSchema, "format": "json"})

	rec := get(h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`xsdgen_http_requests_total{route="/v1/parse",status="200"} 1`,
		`xsdgen_http_requests_total{route="/v1/generate",status="200"} 1`,
		`xsdgen_schema_parse_total{status="success"} 2`,
		`xsdgen_payload_generate_total{format="json",status="success"} 1`,
		`xsdgen_schema_cache_hits_total 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSchemaCacheBounded(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.Server.CacheEntries = 2 })
	h := srv.Handler()

	schemaFor := func(root string) string {
		return `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="` + root + `" type="xs:string"/></xs:schema>`
	}
	for _, root := range []string{"A", "B", "C", "D"} {
		if rec := post(t, h, "/v1/parse", map[string]string{"schema": schemaFor(root)}); rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, body = %s", root, rec.Code, rec.Body)
		}
	}
	if n := srv.cache.Len(); n != 2 {
		t.Errorf("cache holds %d schemas, want 2", n)
	}

	// Failed parses are not cached.
	for range 3 {
		post(t, h, "/v1/parse", map[string]string{"schema": "<catalog/>"})
	}
	if n := srv.cache.Len(); n != 2 {
		t.Errorf("cache holds %d schemas after failed parses, want 2", n)
	}

	body := get(h, "/metrics").Body.String()
	for _, want := range []string{
		`xsdgen_schema_cache_evictions_total 2`,
		`xsdgen_schema_cache_hits_total 0`,
		`xsdgen_schema_parse_total{status="error"} 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
