package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func makeEntry(name, domain, resource string, op Operation) Entry {
	return Entry{Name: name, Domain: domain, Resource: resource, Operation: op, Summary: "summary of " + name}
}

func TestNewSnapshot_DefaultsAndCounts(t *testing.T) {
	snap, err := NewSnapshot([]Entry{
		makeEntry("virtual_origin-pool_create", "virtual", "origin_pool", OpCreate),
		makeEntry("virtual_origin-pool_get", "virtual", "origin_pool", OpGet),
		makeEntry("waap_policy_list", "waap", "policy", OpList),
	}, Metadata{})
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}
	if snap.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", snap.Len())
	}
	if snap.Metadata.DomainCounts["virtual"] != 2 || snap.Metadata.DomainCounts["waap"] != 1 {
		t.Errorf("unexpected domain counts: %v", snap.Metadata.DomainCounts)
	}
	e, ok := snap.Lookup("waap_policy_list")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if e.DangerLevel != DangerLow {
		t.Errorf("expected default danger level low, got %q", e.DangerLevel)
	}
	if _, ok := snap.Lookup("missing"); ok {
		t.Error("expected lookup of unknown name to fail")
	}
	if got := snap.Domains(); len(got) != 2 || got[0] != "virtual" || got[1] != "waap" {
		t.Errorf("unexpected domains: %v", got)
	}
}

func TestNewSnapshot_InvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		field string
	}{
		{"missing name", Entry{Domain: "d", Resource: "r", Operation: OpGet}, "name"},
		{"missing domain", Entry{Name: "n", Resource: "r", Operation: OpGet}, "domain"},
		{"missing resource", Entry{Name: "n", Domain: "d", Operation: OpGet}, "resource"},
		{"bad operation", Entry{Name: "n", Domain: "d", Resource: "r", Operation: "replace"}, "operation"},
		{"bad danger", Entry{Name: "n", Domain: "d", Resource: "r", Operation: OpGet, DangerLevel: "extreme"}, "dangerLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot([]Entry{tt.entry}, Metadata{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("expected ErrInvalidEntry, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestNewSnapshot_DuplicateName(t *testing.T) {
	e := makeEntry("dup", "d", "r", OpGet)
	_, err := NewSnapshot([]Entry{e, e}, Metadata{})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestNewSnapshot_MetadataMismatch(t *testing.T) {
	entries := []Entry{makeEntry("a", "d", "r", OpGet)}
	if _, err := NewSnapshot(entries, Metadata{DomainCounts: map[string]int{"d": 2}}); !errors.Is(err, ErrMetadata) {
		t.Errorf("expected ErrMetadata for domain counts, got %v", err)
	}
	if _, err := NewSnapshot(entries, Metadata{TotalTools: 4}); !errors.Is(err, ErrMetadata) {
		t.Errorf("expected ErrMetadata for total, got %v", err)
	}
	if _, err := NewSnapshot(entries, Metadata{DomainCounts: map[string]int{"d": 1}, TotalTools: 1}); err != nil {
		t.Errorf("expected matching metadata to pass, got %v", err)
	}
}

func TestFileLoader_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "catalog.json")
	yamlPath := filepath.Join(dir, "catalog.yaml")

	jsonDoc := `{
  "metadata": {"version": "1", "domains": {"virtual": 1}},
  "tools": [
    {"name": "virtual_origin-pool_create", "domain": "virtual", "resource": "origin_pool",
     "operation": "create", "summary": "Create an origin pool", "dangerLevel": "medium"}
  ]
}`
	yamlDoc := `metadata:
  version: "1"
tools:
  - name: waap_policy_delete
    domain: waap
    resource: policy
    operation: delete
    dangerLevel: high
`
	if err := os.WriteFile(jsonPath, []byte(jsonDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	snap, err := NewFileLoader(jsonPath).Load()
	if err != nil {
		t.Fatalf("json load failed: %v", err)
	}
	if e, _ := snap.Lookup("virtual_origin-pool_create"); e.DangerLevel != DangerMedium {
		t.Errorf("expected medium danger, got %q", e.DangerLevel)
	}

	snap, err = NewFileLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("yaml load failed: %v", err)
	}
	if e, _ := snap.Lookup("waap_policy_delete"); !e.IsDangerous() {
		t.Error("expected high danger entry")
	}
}

func TestFileLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewFileLoader(filepath.Join(dir, "missing.json")).Load(); err == nil {
		t.Error("expected error for missing file")
	}

	txt := filepath.Join(dir, "catalog.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader(txt).Load(); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("expected ErrUnsupportedFile, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"tools":[{"name":"x"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader(bad).Load(); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestParseOperation(t *testing.T) {
	if op, ok := ParseOperation(" Create "); !ok || op != OpCreate {
		t.Errorf("expected create, got %q %v", op, ok)
	}
	if _, ok := ParseOperation("replace"); ok {
		t.Error("expected replace to be rejected")
	}
	if OpPatch.Rank() != 5 || Operation("x").Rank() != len(Operations) {
		t.Error("unexpected operation rank")
	}
}
