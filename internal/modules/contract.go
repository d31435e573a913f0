package modules

// Implementation 模块行为契约
// 每个功能模块提供一个实现，通过Key与模块目录中的定义对应。
// 生命周期调用（Initialize/Configure/Shutdown）是建议性副作用：
// 激活记录才是权威状态，调用失败只记日志，不回滚已持久化的激活。
type Implementation interface {
	Name() string
	Key() string
	Description() string
	ModuleType() string

	// Initialize 模块为指定组织激活后调用
	Initialize(organizationID uint) error
	// Shutdown 模块为指定组织停用后调用
	Shutdown(organizationID uint) error
	// Configure 配置串更新后调用，配置内容仅由模块自己解释
	Configure(configuration string) error

	// RequiredPermissions 模块功能需要的权限代码
	RequiredPermissions() []string
	// Dependencies 声明依赖的其他模块Key（仅供展示，激活时不做校验）
	Dependencies() []string
}
