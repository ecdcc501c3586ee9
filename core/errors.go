package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - 召回错误：INVALID_CONFIGURATION（如 n < 0、价格区间倒置）
//   - 数据加载错误：INVALID_INPUT（评分文件格式错误）
//
// 注意：未知用户/物品与"相似度未定义"在召回层被就地消化（返回空结果），
// 不会作为错误向上传播。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_CONFIGURATION"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "similarity"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is 按 Module + Code 比较，便于 errors.Is 匹配哨兵错误。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Module == "" || e.Module == t.Module)
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取 DomainError（支持 %w 包装链），如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 推荐领域错误代码
	ErrorCodeInvalidConfiguration = "INVALID_CONFIGURATION" // 配置/参数非法，仅对本次调用致命
	ErrorCodeUndefinedSimilarity  = "UNDEFINED_SIMILARITY"  // 共同数据不足，相似度无定义
)

// 模块名称常量
const (
	ModuleStore      = "store"      // 存储模块
	ModuleSimilarity = "similarity" // 相似度模块
	ModuleRecall     = "recall"     // 召回模块
	ModulePipeline   = "pipeline"   // 编排模块
	ModuleCatalog    = "catalog"    // 商品目录 / 用户画像
)

// ErrUndefinedSimilarity 表示两者之间没有可用的相似度（共同评分不足、方差为 0、无交互用户）。
// 相似度函数以 (0, false) 表达该状态，此哨兵仅用于日志和需要 error 形态的调用方。
var ErrUndefinedSimilarity = NewDomainError(ModuleSimilarity, ErrorCodeUndefinedSimilarity, "similarity: undefined")

// InvalidConfiguration 创建一个 INVALID_CONFIGURATION 错误。
func InvalidConfiguration(module, message string) *DomainError {
	return NewDomainError(module, ErrorCodeInvalidConfiguration, message)
}

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrorCodeInvalidInput)
}

// IsInvalidConfiguration 检查错误是否为 INVALID_CONFIGURATION
func IsInvalidConfiguration(err error) bool {
	return hasCode(err, ErrorCodeInvalidConfiguration)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}
