package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// KVStore 偏好存储的最小契约，由 pkg/cache 的Redis实现满足
// 测试中用内存假实现替换。
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ModuleManagementPreferences 模块管理界面的组织级偏好
type ModuleManagementPreferences struct {
	SearchText      string  `json:"search_text"`
	SortOption      string  `json:"sort_option"`
	AvailableFilter *string `json:"available_filter"` // 可用列表的模块类型过滤
	ActiveFilter    *string `json:"active_filter"`    // 已激活列表的模块类型过滤
}

// 排序选项常量
const (
	SortOptionNameAsc    = "name_asc"
	SortOptionNameDesc   = "name_desc"
	SortOptionModuleType = "module_type"
	SortOptionKey        = "key"
)

// ValidSortOption 检查排序选项是否合法
func ValidSortOption(option string) bool {
	switch option {
	case SortOptionNameAsc, SortOptionNameDesc, SortOptionModuleType, SortOptionKey:
		return true
	}
	return false
}

// PreferencesService 组织级界面偏好
// 每个组织一个键；写入经过组织粒度互斥锁串行化，避免并发读-改-写丢更新。
type PreferencesService struct {
	kv    KVStore
	locks sync.Map // orgID -> *sync.Mutex
}

func NewPreferencesService(kv KVStore) *PreferencesService {
	return &PreferencesService{kv: kv}
}

func (s *PreferencesService) orgLock(organizationID uint) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(organizationID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func (s *PreferencesService) key(organizationID uint) string {
	return fmt.Sprintf("prefs:module_management:%d", organizationID)
}

// GetModuleManagementPreferences 读取组织的模块管理偏好，未保存过时返回nil
func (s *PreferencesService) GetModuleManagementPreferences(ctx context.Context, organizationID uint) (*ModuleManagementPreferences, error) {
	raw, found, err := s.kv.Get(ctx, s.key(organizationID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var preferences ModuleManagementPreferences
	if err := json.Unmarshal([]byte(raw), &preferences); err != nil {
		return nil, fmt.Errorf("偏好数据解析失败: %v", err)
	}
	return &preferences, nil
}

// SaveModuleManagementPreferences 保存组织的模块管理偏好
func (s *PreferencesService) SaveModuleManagementPreferences(ctx context.Context, organizationID uint, preferences *ModuleManagementPreferences) error {
	if preferences.SortOption == "" {
		preferences.SortOption = SortOptionNameAsc
	}
	if !ValidSortOption(preferences.SortOption) {
		return fmt.Errorf("排序选项不合法: %s", preferences.SortOption)
	}

	lock := s.orgLock(organizationID)
	lock.Lock()
	defer lock.Unlock()

	raw, err := json.Marshal(preferences)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key(organizationID), string(raw), 0)
}
