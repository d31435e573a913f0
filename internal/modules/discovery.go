package modules

import (
	"strings"
	"sync"

	"ubs/pkg/logger"
)

// Discovery 模块实现候选表
// 取代运行期反射扫描：所有实现于进程启动时静态登记。
// 登记完成后只读，可被并发读取。
type Discovery struct {
	candidates []Implementation
	index      map[string]Implementation // 键为小写Key
}

// NewDiscovery 登记实现候选
// Key大小写不敏感；同一Key登记多次属于配置错误，记警告日志并保留先登记者（按登记顺序确定）。
func NewDiscovery(impls ...Implementation) *Discovery {
	d := &Discovery{
		index: make(map[string]Implementation, len(impls)),
	}
	for _, impl := range impls {
		key := strings.ToLower(impl.Key())
		if _, exists := d.index[key]; exists {
			logger.GetLogger().Warnf("模块实现重复登记: %s，保留先登记的实现", impl.Key())
			continue
		}
		d.index[key] = impl
		d.candidates = append(d.candidates, impl)
	}
	return d
}

// Find 按Key定位实现，未登记时返回 ok=false
func (d *Discovery) Find(key string) (Implementation, bool) {
	impl, ok := d.index[strings.ToLower(key)]
	return impl, ok
}

// All 按登记顺序返回全部实现
func (d *Discovery) All() []Implementation {
	result := make([]Implementation, len(d.candidates))
	copy(result, d.candidates)
	return result
}

// 进程级单例
var (
	defaultDiscovery *Discovery
	discoveryOnce    sync.Once
)

// DefaultDiscovery 获取内置模块实现的候选表
func DefaultDiscovery() *Discovery {
	discoveryOnce.Do(func() {
		defaultDiscovery = NewDiscovery(
			NewUserManagementModule(),
			NewInventoryModule(),
		)
	})
	return defaultDiscovery
}
