package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCaseInsensitiveLookup(t *testing.T) {
	registry := NewRegistry(
		Descriptor{Key: "Billing", Name: "计费", EntryPath: "/modules/billing"},
	)

	for _, key := range []string{"billing", "Billing", "BILLING"} {
		d, ok := registry.Get(key)
		require.True(t, ok, "lookup with %q should hit", key)
		assert.Equal(t, "计费", d.Name)
	}

	_, ok := registry.Get("unknown")
	assert.False(t, ok)
}

func TestRegistryDuplicateKeepsFirst(t *testing.T) {
	registry := NewRegistry(
		Descriptor{Key: "billing", Name: "first"},
		Descriptor{Key: "BILLING", Name: "second"},
	)

	d, ok := registry.Get("billing")
	require.True(t, ok)
	assert.Equal(t, "first", d.Name)
	assert.Len(t, registry.All(), 1)
}

func TestRegistryAllPreservesOrder(t *testing.T) {
	registry := NewRegistry(
		Descriptor{Key: "zeta"},
		Descriptor{Key: "alpha"},
	)

	all := registry.All()
	require.Len(t, all, 2)
	assert.Equal(t, "zeta", all[0].Key)
	assert.Equal(t, "alpha", all[1].Key)
}

func TestDefaultRegistryContainsBuiltins(t *testing.T) {
	registry := DefaultRegistry()

	_, ok := registry.Get("user_management")
	assert.True(t, ok)
	_, ok = registry.Get("inventory_management")
	assert.True(t, ok)
}
