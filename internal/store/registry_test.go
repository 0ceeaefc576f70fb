package store

import (
	"testing"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

func TestNewRegistry_SeedsPredefined(t *testing.T) {
	reg := NewRegistry()

	all := reg.All()
	if len(all) != len(model.PredefinedCategories) {
		t.Fatalf("got %d categories, want %d", len(all), len(model.PredefinedCategories))
	}
	for i, name := range model.PredefinedCategories {
		if all[i].Name != name {
			t.Errorf("category %d = %q, want %q", i, all[i].Name, name)
		}
		if !all[i].Predefined {
			t.Errorf("category %q should be predefined", name)
		}
	}
}

func TestRegistry_CanonicalCaseInsensitive(t *testing.T) {
	reg := NewRegistry()

	got, ok := reg.Canonical("WoRk")
	if !ok {
		t.Fatal("expected a match for WoRk")
	}
	if got != "work" {
		t.Errorf("canonical = %q, want %q", got, "work")
	}

	if _, ok := reg.Canonical("nope"); ok {
		t.Error("unexpected match for unregistered name")
	}
}

func TestRegistry_Ensure(t *testing.T) {
	reg := NewRegistry()

	// First use registers the custom spelling
	if got := reg.Ensure("Errands"); got != "Errands" {
		t.Errorf("ensure = %q, want %q", got, "Errands")
	}

	// Later uses resolve to it regardless of casing
	if got := reg.Ensure("errands"); got != "Errands" {
		t.Errorf("ensure = %q, want canonical %q", got, "Errands")
	}

	all := reg.All()
	last := all[len(all)-1]
	if last.Name != "Errands" || last.Predefined {
		t.Errorf("last category = %+v, want custom Errands", last)
	}
}

func TestRegistry_EnsurePredefined(t *testing.T) {
	reg := NewRegistry()

	if got := reg.Ensure("HEALTH"); got != "health" {
		t.Errorf("ensure = %q, want %q", got, "health")
	}

	// No duplicate appended
	if got := len(reg.All()); got != len(model.PredefinedCategories) {
		t.Errorf("got %d categories, want %d", got, len(model.PredefinedCategories))
	}
}

func TestRegistry_LoadReseedsPredefined(t *testing.T) {
	reg := NewRegistry()

	// A snapshot carrying only custom categories
	reg.Load([]model.Category{{Name: "Errands"}})

	if _, ok := reg.Canonical("work"); !ok {
		t.Error("predefined categories should survive a load")
	}
	if _, ok := reg.Canonical("errands"); !ok {
		t.Error("loaded custom category missing")
	}
}
