package errors

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// 模块子系统业务错误码 (1000-1099)
const (
	CodeModuleNotFound  = 1001 // 模块不存在
	CodeModuleDisabled  = 1002 // 模块在目录中被停用
	CodeModuleInactive  = 1003 // 组织未激活该模块
	CodeModuleCheckFail = 1004 // 模块状态查询失败（基础设施错误）
)
