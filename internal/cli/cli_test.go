package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testCatalog = `metadata:
  version: "1"
tools:
  - name: virtual_origin_pool_create
    domain: virtual
    resource: origin-pool
    operation: create
    summary: Create origin pool
  - name: virtual_healthcheck_create
    domain: virtual
    resource: healthcheck
    operation: create
    summary: Create healthcheck
  - name: dns_zone_create
    domain: dns
    resource: zone
    operation: create
    summary: Create DNS zone
`

const testDependencies = `version: "1"
resources:
  virtual/origin_pool:
    requires:
      - domain: virtual
        resourceType: healthcheck
        required: true
  virtual/healthcheck: {}
`

// run executes the root command in a temporary working directory holding the
// test catalog and dependency graph.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte(testCatalog), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "deps.yaml"), []byte(testDependencies), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--catalog", "catalog.yaml", "--dependencies", "deps.yaml"}, args...))
	err := root.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	return m
}

func TestSearchCommand(t *testing.T) {
	out, err := run(t, "search", "dns", "zone")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	m := decode(t, out)
	if m["query"] != "dns zone" || m["mode"] != "lexical" || m["count"] != float64(1) {
		t.Errorf("unexpected output %v", m)
	}
}

func TestSearchCommand_UnknownMode(t *testing.T) {
	if _, err := run(t, "search", "zone", "--mode", "semantic"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPlanCommand(t *testing.T) {
	out, err := run(t, "plan", "virtual", "origin-pool", "--cost")
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	m := decode(t, out)
	if m["success"] != true {
		t.Fatalf("expected success, got %v", m)
	}
	plan := m["plan"].(map[string]any)
	if steps := plan["steps"].([]any); len(steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(steps))
	}
	costs := m["cost"].(map[string]any)
	if costs["toolCount"] != float64(2) {
		t.Errorf("unexpected cost %v", costs)
	}
}

func TestReportCommand(t *testing.T) {
	out, err := run(t, "report", "virtual", "healthcheck", "--mode", "dependents")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	m := decode(t, out)
	if deps := m["dependents"].([]any); len(deps) != 1 {
		t.Errorf("expected 1 dependent, got %v", deps)
	}
	if _, err := run(t, "report", "virtual", "healthcheck", "--mode", "sideways"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestCostCommand(t *testing.T) {
	out, err := run(t, "cost", "dns_zone_create", "missing")
	if err != nil {
		t.Fatalf("cost failed: %v", err)
	}
	m := decode(t, out)
	if m["toolCount"] != float64(1) {
		t.Errorf("unexpected output %v", m)
	}
	if unknown := m["unknown"].([]any); len(unknown) != 1 || unknown[0] != "missing" {
		t.Errorf("unexpected unknown list %v", unknown)
	}
}

func TestStatsAndDescribe(t *testing.T) {
	out, err := run(t, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	idx := decode(t, out)["index"].(map[string]any)
	if idx["totalEntries"] != float64(3) {
		t.Errorf("unexpected index stats %v", idx)
	}

	out, err = run(t, "describe", "dns_zone_create", "--detail", "summary")
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	if doc := decode(t, out); doc["id"] != "dns:dns_zone_create" {
		t.Errorf("unexpected doc %v", doc)
	}
}

func TestNoCatalog(t *testing.T) {
	t.Chdir(t.TempDir())
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"stats"})
	if err := root.Execute(); !errors.Is(err, ErrNoCatalog) {
		t.Errorf("expected ErrNoCatalog, got %v", err)
	}
}
