package routefinder

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultGeographyPolicy(t *testing.T) {
	policy := DefaultGeographyPolicy()

	if err := policy.Validate(); err != nil {
		t.Fatalf("default policy does not validate: %s", err)
	}

	// İzmit to Ankara through either İstanbul terminus doubles back.
	if !policy.IsIllogical(1135, 48, 98) {
		t.Error("expected İzmit -> Söğütlüçeşme -> Ankara to be denied")
	}
	if !policy.IsIllogical(1135, 1325, 98) {
		t.Error("expected İzmit -> Pendik -> Ankara to be denied")
	}

	// The reverse direction is covered by the backwards rules.
	if !policy.IsIllogical(98, 1325, 1135) {
		t.Error("expected Ankara -> Pendik -> İzmit to be denied")
	}

	// A sane detour stays allowed.
	if policy.IsIllogical(98, 87, 180) {
		t.Error("Ankara -> Eskişehir -> İzmir should be allowed")
	}

	if !policy.IsHub(98) {
		t.Error("Ankara should be a hub")
	}
	if policy.IsHub(424242) {
		t.Error("unknown station reported as hub")
	}
}

func TestLoadGeographyPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")

	content := []byte(`
hubs: [98, 87]
deny_rules:
  - from: 1135
    via: [48]
    to: 98
station_groups:
  istanbul: [48, 1325]
  izmit: [1135]
backwards_rules:
  - via_group: istanbul
    from_groups: [izmit]
    to_groups: [izmit]
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	policy, err := LoadGeographyPolicy(path)
	if err != nil {
		t.Fatalf("LoadGeographyPolicy failed: %s", err)
	}

	if len(policy.Hubs) != 2 || !policy.IsHub(87) {
		t.Errorf("unexpected hubs: %v", policy.Hubs)
	}
	if !policy.IsIllogical(1135, 48, 98) {
		t.Error("deny rule from file not applied")
	}
}

func TestLoadGeographyPolicyRejectsUndefinedGroup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")

	content := []byte(`
hubs: [98]
station_groups:
  istanbul: [48]
backwards_rules:
  - via_group: istanbul
    from_groups: [ankara]
    to_groups: [istanbul]
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadGeographyPolicy(path); err == nil {
		t.Fatal("expected undefined station group to be rejected")
	}
}

func TestLoadGeographyPolicyRejectsIncompleteRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")

	content := []byte(`
deny_rules:
  - from: 1135
    to: 98
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadGeographyPolicy(path); err == nil {
		t.Fatal("expected deny rule without via stations to be rejected")
	}
}
