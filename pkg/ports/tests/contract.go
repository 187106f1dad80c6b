package tests

import (
	"testing"

	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/ports"
)

// TableLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.TableLoader.
func TableLoaderContractTest(t *testing.T, loader ports.TableLoader) {
	t.Helper()

	variants := loader.ListVariants()
	if len(variants) == 0 {
		t.Fatal("ListVariants returned no variants")
	}

	t.Run("LoadTable_Success", func(t *testing.T) {
		for _, name := range variants {
			table, err := loader.LoadTable(name)
			if err != nil {
				t.Fatalf("unexpected error loading variant %s: %v", name, err)
			}
			if table.Variant() != name {
				t.Errorf("variant %s: table reports name %q", name, table.Variant())
			}
			if len(table.Alphabet()) == 0 {
				t.Errorf("variant %s: empty alphabet", name)
			}
			for _, s := range domain.States() {
				if len(table.ValidSymbols(s)) == 0 {
					t.Errorf("variant %s: state %s is a sink", name, s)
				}
			}
		}
	})

	t.Run("LoadTable_NotFound", func(t *testing.T) {
		if _, err := loader.LoadTable("non-existent-variant"); err == nil {
			t.Error("expected error for non-existent variant, got nil")
		}
	})
}
