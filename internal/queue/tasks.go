package queue

import (
	"encoding/json"

	"github.com/minishop-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskUserWelcomeEmail 注册欢迎邮件
	TaskUserWelcomeEmail = constants.TaskUserWelcomeEmail
	// TaskPasswordResetEmail 密码重置邮件
	TaskPasswordResetEmail = constants.TaskPasswordResetMail
	// TaskOrderPlacedEmail 下单确认邮件
	TaskOrderPlacedEmail = constants.TaskOrderPlacedEmail
	// TaskInvoiceArchive 发票归档
	TaskInvoiceArchive = constants.TaskInvoiceArchive
	// TaskOrderEventPublish 订单事件投递
	TaskOrderEventPublish = constants.TaskOrderEventPublish
)

// UserEmailPayload 用户邮件任务载荷
type UserEmailPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// PasswordResetEmailPayload 重置邮件任务载荷，链接在入队时生成
type PasswordResetEmailPayload struct {
	Email     string `json:"email"`
	ResetLink string `json:"reset_link"`
	ExpiresIn int    `json:"expires_in_minutes"`
}

// OrderPayload 订单类任务载荷
type OrderPayload struct {
	OrderID uint `json:"order_id"`
}

// NewUserWelcomeEmailTask 创建欢迎邮件任务
func NewUserWelcomeEmailTask(payload UserEmailPayload) (*asynq.Task, error) {
	return newJSONTask(TaskUserWelcomeEmail, payload)
}

// NewPasswordResetEmailTask 创建重置邮件任务
func NewPasswordResetEmailTask(payload PasswordResetEmailPayload) (*asynq.Task, error) {
	return newJSONTask(TaskPasswordResetEmail, payload)
}

// NewOrderPlacedEmailTask 创建下单邮件任务
func NewOrderPlacedEmailTask(payload OrderPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderPlacedEmail, payload)
}

// NewInvoiceArchiveTask 创建发票归档任务
func NewInvoiceArchiveTask(payload OrderPayload) (*asynq.Task, error) {
	return newJSONTask(TaskInvoiceArchive, payload)
}

// NewOrderEventPublishTask 创建订单事件投递任务
func NewOrderEventPublishTask(payload OrderPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderEventPublish, payload)
}

func newJSONTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}
