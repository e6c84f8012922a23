package labels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_BuiltinEntries(t *testing.T) {
	c := Default()
	if got := c.Lookup(3).Name; got != "スタンダード・総合 (バランス型)" {
		t.Fatalf("Lookup(3).Name = %q", got)
	}
	if !strings.HasSuffix(c.Lookup(0).Description, "おすすめです。") {
		t.Fatalf("Lookup(0).Description = %q", c.Lookup(0).Description)
	}
	if got := c.Labels(); len(got) != 5 {
		t.Fatalf("Labels = %v", got)
	}
}

func TestLookup_UnknownFallsBack(t *testing.T) {
	for _, c := range []*Catalog{Default(), nil, {}} {
		info := c.Lookup(42)
		if info.Name != "Cluster 42" || info.Description != "" {
			t.Fatalf("Lookup(42) = %+v", info)
		}
		if c.Has(42) {
			t.Fatal("Has(42) should be false")
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	body := "clusters:\n" +
		"  0:\n    name: Research\n" +
		"  7:\n    name: Extra\n    description: added\n" +
		"  9:\n    description: only a description\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	zero := c.Lookup(0)
	if zero.Name != "Research" {
		t.Fatalf("override name = %q", zero.Name)
	}
	if zero.Description != Default().Lookup(0).Description {
		t.Fatal("blank override should keep built-in description")
	}
	if got := c.Lookup(7); got.Name != "Extra" || got.Description != "added" {
		t.Fatalf("Lookup(7) = %+v", got)
	}
	if got := c.Lookup(9); got.Name != "Cluster 9" || got.Description != "only a description" {
		t.Fatalf("Lookup(9) = %+v", got)
	}
	if c.Has(9) {
		t.Fatal("a label without a name should not count as defined")
	}
	if c.Lookup(1) != Default().Lookup(1) {
		t.Fatal("untouched entry changed")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file should error")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("clusters: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("invalid YAML should error")
	}
	if c, err := Load(""); err != nil || !c.Has(4) {
		t.Fatalf("Load(\"\") = %v, %v", c, err)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "labels.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, l := range Default().Labels() {
		if c.Lookup(l) != Default().Lookup(l) {
			t.Fatalf("label %d differs after round trip", l)
		}
	}
}
