package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/benhanover/kaplat/pkg/errors"
)

// Response 统一响应结构
// 设计说明:
// 1. Result是业务数据,失败时为null
// 2. ErrorMessage是错误提示,成功时为null
// 3. 所有接口(健康检查除外)都使用这个信封,包括历史上省略errorMessage的接口
type Response struct {
	Result       interface{} `json:"result"`
	ErrorMessage *string     `json:"errorMessage"`
}

// OK 成功响应
func OK(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, Response{
		Result:       result,
		ErrorMessage: nil,
	})
}

// Error 错误响应(自动处理AppError)
// 用法:
//
//	result, err := uc.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
//
// 存储层错误只向客户端暴露统一的"Internal server error",
// 具体原因记录到服务端日志。
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := apperrors.HTTPStatus(appErr.Code)

	msg := appErr.Message
	if status == http.StatusInternalServerError {
		// 隐藏存储层细节
		if appErr.Err != nil {
			log.Printf("storage error on %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr.Err)
		} else {
			log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr)
		}
		msg = "Internal server error"
	}

	c.JSON(status, Response{
		Result:       nil,
		ErrorMessage: &msg,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), Response{
		Result:       nil,
		ErrorMessage: &message,
	})
}
