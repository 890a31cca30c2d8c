package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明:
// 1. Code用于区分错误类型,并决定HTTP状态码(见HTTPStatus)
// 2. Message是返回给客户端的errorMessage文本
// 3. Err是内部错误,仅记录到日志,不返回给客户端(防止泄露存储层细节)
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 客户端可见的错误提示
	Err     error  `json:"-"`       // 内部错误(不序列化)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 创建带格式化消息的AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装存储层错误(如数据库错误、网络错误)
// 用途:将底层错误转换为统一的StorageError,隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范:
// - 400xx: 请求格式错误(缺少字段、非法genre、参数解析失败)
// - 404xx: 资源不存在
// - 409xx: 业务规则冲突(标题重复、年份/价格越界)
// - 500xx: 存储层错误

const (
	// 请求格式错误(40000-40099)
	ErrCodeInvalidParams = 40000 // 参数错误(通用)
	ErrCodeMissingField  = 40001 // 缺少必填字段
	ErrCodeInvalidGenre  = 40002 // genre不在固定词表内

	// 资源错误(40400-40499)
	ErrCodeNotFound = 40400 // 图书不存在

	// 业务规则冲突(40900-40999)
	ErrCodeDuplicateTitle = 40900 // 标题重复(大小写不敏感)
	ErrCodeInvalidYear    = 40901 // 年份不在[1940, 2100]范围内
	ErrCodeNegativePrice  = 40902 // 价格为负数

	// 存储层错误(50000-50099)
	ErrCodeStorage = 50000 // 存储后端错误(统一包装)
)

// HTTPStatus 业务错误码 → HTTP状态码
// 映射规则与对外接口约定一致:
// - 缺少字段/非法genre/参数错误 → 400
// - 图书不存在 → 404
// - 标题重复/年份越界/价格为负 → 409
// - 存储错误及其它未知错误 → 500
func HTTPStatus(code int) int {
	switch code {
	case ErrCodeInvalidParams, ErrCodeMissingField, ErrCodeInvalidGenre:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateTitle, ErrCodeInvalidYear, ErrCodeNegativePrice:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// =========================================
// 预定义错误
// =========================================

var (
	// ErrStorage 存储层错误,客户端只看到统一的提示
	ErrStorage = New(ErrCodeStorage, "Internal server error")

	// ErrMissingField 缺少必填字段
	ErrMissingField = New(ErrCodeMissingField, "Missing required fields")

	// ErrInvalidGenre genre不在词表内
	ErrInvalidGenre = New(ErrCodeInvalidGenre, "Error: Invalid genre(s) provided")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError(如果不是AppError则包装成StorageError)
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}

// IsCode 判断错误是否携带指定的业务错误码
func IsCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
