package locas

import "testing"

func TestDefaultCatalogSpecs(t *testing.T) {
	catalog := DefaultCatalog()

	specs := catalog.Specs()
	wantOrder := []string{
		ToolFindPlaces,
		ToolAnalyzeLand,
		ToolAnalyzeBusiness,
		ToolEnvironmentalData,
		ToolSearchWeb,
	}
	if len(specs) != len(wantOrder) {
		t.Fatalf("got %d specs, want %d", len(specs), len(wantOrder))
	}
	for i, spec := range specs {
		if spec.Name != wantOrder[i] {
			t.Errorf("specs[%d] = %s, want %s", i, spec.Name, wantOrder[i])
		}
		if spec.Description == "" || spec.Parameters == nil {
			t.Errorf("spec %s is missing description or parameters", spec.Name)
		}
	}
}

func TestCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog()

	if _, ok := catalog.Lookup("FIND_PLACES"); !ok {
		t.Error("lookup should be case-insensitive")
	}
	if _, ok := catalog.Lookup("teleport"); ok {
		t.Error("unknown tool should not resolve")
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	c := NewStaticToolCatalog(nil)
	if err := c.register(DefaultCatalog().Specs()[0]); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := c.register(DefaultCatalog().Specs()[0]); err == nil {
		t.Error("duplicate register should fail")
	}
}
