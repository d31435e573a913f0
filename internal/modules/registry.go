package modules

import (
	"strings"
	"sync"

	"ubs/pkg/logger"
)

// Descriptor 模块展示元数据 - 供界面层渲染模块入口
type Descriptor struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	EntryPath string `json:"entry_path"` // 前端入口路由
}

// Registry 模块描述符注册表
// 进程启动时构建一次，之后只读，可被并发读取
type Registry struct {
	descriptors map[string]Descriptor // 键为小写Key
	order       []string              // 保持注册顺序
}

// NewRegistry 构建注册表，Key大小写不敏感，重复注册以先注册者为准
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{
		descriptors: make(map[string]Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		key := strings.ToLower(d.Key)
		if _, exists := r.descriptors[key]; exists {
			logger.GetLogger().Warnf("模块描述符重复注册: %s，保留先注册的条目", d.Key)
			continue
		}
		r.descriptors[key] = d
		r.order = append(r.order, key)
	}
	return r
}

// Get 按Key查找描述符
func (r *Registry) Get(key string) (Descriptor, bool) {
	d, ok := r.descriptors[strings.ToLower(key)]
	return d, ok
}

// All 按注册顺序返回全部描述符
func (r *Registry) All() []Descriptor {
	result := make([]Descriptor, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.descriptors[key])
	}
	return result
}

// 进程级单例：必须在任何激活引擎调用之前完成构建
var (
	defaultRegistry *Registry
	registryOnce    sync.Once
)

// DefaultRegistry 获取内置模块的描述符注册表
func DefaultRegistry() *Registry {
	registryOnce.Do(func() {
		defaultRegistry = NewRegistry(
			Descriptor{
				Key:       "user_management",
				Name:      "用户管理",
				Icon:      "Account",
				EntryPath: "/modules/users",
			},
			Descriptor{
				Key:       "inventory_management",
				Name:      "库存管理",
				Icon:      "Package",
				EntryPath: "/modules/inventory",
			},
		)
	})
	return defaultRegistry
}
