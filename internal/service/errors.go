package service

import (
	"errors"
	"fmt"
)

// 基础错误类别，具体错误均包装其一，调用方可按类别 errors.Is
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrConflict       = errors.New("concurrent modification")
	ErrInfrastructure = errors.New("infrastructure failure")
)

// 资源不存在
var (
	ErrProductNotFound  = fmt.Errorf("%w: product", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("%w: order", ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("%w: cart item", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrAdminNotFound    = fmt.Errorf("%w: admin", ErrNotFound)
)

// 参数校验
var (
	ErrProductInvalid       = fmt.Errorf("%w: product", ErrValidation)
	ErrCartItemInvalid      = fmt.Errorf("%w: cart item", ErrValidation)
	ErrCartQuantityLimit    = fmt.Errorf("%w: quantity exceeds limit", ErrCartItemInvalid)
	ErrInvalidEmail         = fmt.Errorf("%w: email", ErrValidation)
	ErrEmailExists          = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrPasswordMismatch     = fmt.Errorf("%w: password confirmation mismatch", ErrValidation)
	ErrWeakPassword         = fmt.Errorf("%w: weak password", ErrValidation)
	ErrResetTokenInvalid    = fmt.Errorf("%w: reset token", ErrValidation)
	ErrInvoiceFormatInvalid = fmt.Errorf("%w: invoice format", ErrValidation)
	ErrImportFileInvalid    = fmt.Errorf("%w: import file", ErrValidation)
	ErrCaptchaRequired      = fmt.Errorf("%w: captcha required", ErrValidation)
	ErrCaptchaInvalid       = fmt.Errorf("%w: captcha invalid", ErrValidation)
)

// 认证
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrInvalidPassword    = errors.New("old password incorrect")
)

// 并发冲突
var (
	ErrCheckoutConflict = fmt.Errorf("%w: cart changed during checkout", ErrConflict)
)

// 基础设施
var (
	ErrProductFetchFailed   = fmt.Errorf("%w: product fetch", ErrInfrastructure)
	ErrProductCreateFailed  = fmt.Errorf("%w: product create", ErrInfrastructure)
	ErrProductUpdateFailed  = fmt.Errorf("%w: product update", ErrInfrastructure)
	ErrProductDeleteFailed  = fmt.Errorf("%w: product delete", ErrInfrastructure)
	ErrCartFetchFailed      = fmt.Errorf("%w: cart fetch", ErrInfrastructure)
	ErrCartUpdateFailed     = fmt.Errorf("%w: cart update", ErrInfrastructure)
	ErrOrderCreateFailed    = fmt.Errorf("%w: order create", ErrInfrastructure)
	ErrOrderFetchFailed     = fmt.Errorf("%w: order fetch", ErrInfrastructure)
	ErrInvoiceRenderFailed  = fmt.Errorf("%w: invoice render", ErrInfrastructure)
	ErrUserFetchFailed      = fmt.Errorf("%w: user fetch", ErrInfrastructure)
	ErrUserSaveFailed       = fmt.Errorf("%w: user save", ErrInfrastructure)
	ErrSearchFailed         = fmt.Errorf("%w: search", ErrInfrastructure)
	ErrExportFailed         = fmt.Errorf("%w: export", ErrInfrastructure)
	ErrEmailServiceDisabled = fmt.Errorf("%w: email disabled", ErrInfrastructure)
	ErrEmailSendFailed      = fmt.Errorf("%w: email send", ErrInfrastructure)
	ErrCaptchaConfigInvalid = fmt.Errorf("%w: captcha config", ErrInfrastructure)
)

// wrapCause 同时保留业务错误与底层驱动错误
func wrapCause(kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}
