package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKV 内存KV假实现
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func TestPreferencesRoundTrip(t *testing.T) {
	service := NewPreferencesService(newFakeKV())
	ctx := context.Background()

	filter := "inventory"
	saved := &ModuleManagementPreferences{
		SearchText:      "库存",
		SortOption:      SortOptionNameDesc,
		AvailableFilter: &filter,
	}
	require.NoError(t, service.SaveModuleManagementPreferences(ctx, 1, saved))

	loaded, err := service.GetModuleManagementPreferences(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "库存", loaded.SearchText)
	assert.Equal(t, SortOptionNameDesc, loaded.SortOption)
	require.NotNil(t, loaded.AvailableFilter)
	assert.Equal(t, "inventory", *loaded.AvailableFilter)
	assert.Nil(t, loaded.ActiveFilter)
}

func TestPreferencesNeverSaved(t *testing.T) {
	service := NewPreferencesService(newFakeKV())

	loaded, err := service.GetModuleManagementPreferences(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPreferencesOrganizationScoped(t *testing.T) {
	service := NewPreferencesService(newFakeKV())
	ctx := context.Background()

	require.NoError(t, service.SaveModuleManagementPreferences(ctx, 1, &ModuleManagementPreferences{SearchText: "one"}))
	require.NoError(t, service.SaveModuleManagementPreferences(ctx, 2, &ModuleManagementPreferences{SearchText: "two"}))

	first, err := service.GetModuleManagementPreferences(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "one", first.SearchText)

	second, err := service.GetModuleManagementPreferences(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "two", second.SearchText)
}

func TestPreferencesSortOptionValidation(t *testing.T) {
	service := NewPreferencesService(newFakeKV())
	ctx := context.Background()

	// 不合法的排序选项被拒绝
	err := service.SaveModuleManagementPreferences(ctx, 1, &ModuleManagementPreferences{SortOption: "random"})
	assert.Error(t, err)

	// 空排序选项回落到默认值
	require.NoError(t, service.SaveModuleManagementPreferences(ctx, 1, &ModuleManagementPreferences{}))
	loaded, err := service.GetModuleManagementPreferences(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, SortOptionNameAsc, loaded.SortOption)
}
