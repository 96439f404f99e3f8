package shared

import (
	"errors"

	"github.com/minishop-next/internal/http/response"
	"github.com/minishop-next/internal/i18n"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	RespondErrorWithMsg(c, code, i18n.T(locale, key), err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// MappedError 业务错误到响应码与文案的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// 具体错误优先，其后按错误类别兜底；导入错误包装了行内商品错误，需排在商品规则之前
var serviceErrorRules = []MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrImportFileInvalid, Code: response.CodeBadRequest, Key: "error.import_file_invalid"},
	{Target: service.ErrProductInvalid, Code: response.CodeBadRequest, Key: "error.product_invalid"},
	{Target: service.ErrCartItemInvalid, Code: response.CodeBadRequest, Key: "error.cart_item_invalid"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeBadRequest, Key: "error.email_exists"},
	{Target: service.ErrPasswordMismatch, Code: response.CodeBadRequest, Key: "error.password_mismatch"},
	{Target: service.ErrResetTokenInvalid, Code: response.CodeBadRequest, Key: "error.reset_token_invalid"},
	{Target: service.ErrInvoiceFormatInvalid, Code: response.CodeBadRequest, Key: "error.invoice_format_invalid"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
	{Target: service.ErrEmptyCart, Code: response.CodeEmptyCart, Key: "error.cart_empty"},
	{Target: service.ErrConflict, Code: response.CodeConflict, Key: "error.checkout_conflict"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// RespondServiceError 按业务错误映射响应，未命中时使用 fallbackKey 并记录原始错误
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	if errors.Is(err, service.ErrWeakPassword) {
		respondWeakPassword(c, err)
		return
	}
	RespondMappedError(c, err, serviceErrorRules, response.CodeInternal, fallbackKey)
}

// RespondMappedError 按给定规则映射错误
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

func respondWeakPassword(c *gin.Context, err error) {
	var perr interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &perr) {
		locale := i18n.ResolveLocale(c)
		RespondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, perr.Key(), perr.Args()...), nil)
		return
	}
	RespondError(c, response.CodeBadRequest, "error.password_weak", nil)
}
