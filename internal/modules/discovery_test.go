package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoveryFindCaseInsensitive(t *testing.T) {
	discovery := NewDiscovery(NewInventoryModule())

	for _, key := range []string{"inventory_management", "Inventory_Management", "INVENTORY_MANAGEMENT"} {
		impl, ok := discovery.Find(key)
		require.True(t, ok, "lookup with %q should hit", key)
		assert.Equal(t, "inventory_management", impl.Key())
	}

	_, ok := discovery.Find("unknown")
	assert.False(t, ok)
}

func TestDiscoveryDuplicateKeepsFirst(t *testing.T) {
	discovery := NewDiscovery(NewUserManagementModule(), NewUserManagementModule())

	_, ok := discovery.Find("user_management")
	require.True(t, ok)
	assert.Len(t, discovery.All(), 1)
}

func TestDefaultDiscoveryContainsBuiltins(t *testing.T) {
	discovery := DefaultDiscovery()

	_, ok := discovery.Find("user_management")
	assert.True(t, ok)
	_, ok = discovery.Find("inventory_management")
	assert.True(t, ok)
}

func TestInventoryModuleConfigure(t *testing.T) {
	module := NewInventoryModule()

	assert.NoError(t, module.Configure(""))
	assert.NoError(t, module.Configure(`{"low_stock_alert":true,"default_unit":"pcs"}`))

	// 非法JSON视为生命周期调用失败
	assert.Error(t, module.Configure("{not json"))
}
