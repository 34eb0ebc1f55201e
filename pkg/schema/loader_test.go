package schema

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestLoaderLocalJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/schemas/person.json", []byte(personSchema), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewLoader(fs).Load("/schemas/person.json:Person")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Source() != "/schemas/person.json" {
		t.Errorf("unexpected source %s", s.Source())
	}
	if len(s.Fields()) != 3 {
		t.Errorf("expected 3 fields, got %d", len(s.Fields()))
	}
}

func TestLoaderLocalYAMLKeepsOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `title: Config
type: object
properties:
  zeta:
    type: string
  alpha:
    type: integer
required: [zeta]
`
	if err := afero.WriteFile(fs, "config.schema.yaml", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewLoader(fs).Load("config.schema.yaml:Config")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	fields := s.Fields()
	if len(fields) != 2 || fields[0].Name != "zeta" || fields[1].Name != "alpha" {
		t.Errorf("expected declaration order zeta, alpha; got %+v", fields)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).Load("nope.json:Model")
	if err == nil || !strings.Contains(err.Error(), "schema file not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoaderMalformedSchema(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "bad.json", []byte(`{"type": `), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader(fs).Load("bad.json:Model")
	if err == nil || !strings.Contains(err.Error(), "failed to parse schema") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoaderRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/person.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(personSchema))
	}))
	defer srv.Close()

	loader := NewLoader(afero.NewMemMapFs()).WithHTTPClient(srv.Client())

	s, err := loader.Load(srv.URL + "/person.json:Person")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := s.Field("name"); !ok {
		t.Error("expected field 'name'")
	}

	if _, err := loader.Load(srv.URL + "/other.json:Person"); err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("expected HTTP 404 error, got %v", err)
	}
}
