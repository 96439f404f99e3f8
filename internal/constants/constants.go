package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 商品事件类型常量
const (
	ProductEventCreated = "product.created"
	ProductEventUpdated = "product.updated"
	ProductEventDeleted = "product.deleted"
)

// 订单事件类型常量
const (
	OrderEventPlaced = "order.placed"
)

// 发票格式常量
const (
	InvoiceFormatText = "txt"
	InvoiceFormatPDF  = "pdf"
)

// 邮件通道常量
const (
	EmailTransportSMTP     = "smtp"
	EmailTransportSendGrid = "sendgrid"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码场景常量
const (
	CaptchaSceneLogin          = "login"
	CaptchaSceneForgotPassword = "forgot_password"
)

// 异步队列与任务常量
const (
	QueueDefault          = "default"
	QueueCritical         = "critical"
	TaskUserWelcomeEmail  = "user:welcome_email"
	TaskPasswordResetMail = "user:password_reset_email"
	TaskOrderPlacedEmail  = "order:placed_email"
	TaskInvoiceArchive    = "order:invoice_archive"
	TaskOrderEventPublish = "order:event_publish"
)

// 分页常量
const (
	DefaultShopPageSize = 2
	MaxPageSize         = 100
)

// 购物车常量
const (
	MaxCartItemQuantity = 999
)

// 密码重置常量
const (
	PasswordResetTokenBytes      = 32
	DefaultResetTokenTTLMinutes  = 10
	DefaultCheckoutRetryAttempts = 3
)
