package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/minishop-next/internal/events"
	"github.com/minishop-next/internal/i18n"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/provider"
	"github.com/minishop-next/internal/queue"
	"github.com/minishop-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskUserWelcomeEmail, c.handleUserWelcomeEmail)
	mux.HandleFunc(queue.TaskPasswordResetEmail, c.handlePasswordResetEmail)
	mux.HandleFunc(queue.TaskOrderPlacedEmail, c.handleOrderPlacedEmail)
	mux.HandleFunc(queue.TaskInvoiceArchive, c.handleInvoiceArchive)
	mux.HandleFunc(queue.TaskOrderEventPublish, c.handleOrderEventPublish)
}

func (c *Consumer) handleUserWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	var payload queue.UserEmailPayload
	if err := decodePayload(task, &payload); err != nil {
		logger.Warnw("worker_welcome_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" {
		logger.Debugw("worker_welcome_email_skip_empty_receiver", "user_id", payload.UserID)
		return nil
	}
	if !c.EmailService.Enabled() {
		logger.Debugw("worker_welcome_email_skip_disabled", "user_id", payload.UserID)
		return nil
	}
	if err := c.EmailService.SendWelcome(ctx, email, i18n.DefaultLocale); err != nil {
		return c.emailFailure("worker_welcome_email_send_failed", email, err)
	}
	return nil
}

func (c *Consumer) handlePasswordResetEmail(ctx context.Context, task *asynq.Task) error {
	var payload queue.PasswordResetEmailPayload
	if err := decodePayload(task, &payload); err != nil {
		logger.Warnw("worker_password_reset_email_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.ResetLink) == "" {
		logger.Debugw("worker_password_reset_email_skip_invalid_payload")
		return nil
	}
	if !c.EmailService.Enabled() {
		logger.Warnw("worker_password_reset_email_skip_disabled", "receiver_email", payload.Email)
		return nil
	}
	err := c.EmailService.SendPasswordReset(ctx, payload.Email, payload.ResetLink, payload.ExpiresIn, i18n.DefaultLocale)
	if err != nil {
		return c.emailFailure("worker_password_reset_email_send_failed", payload.Email, err)
	}
	return nil
}

func (c *Consumer) handleOrderPlacedEmail(ctx context.Context, task *asynq.Task) error {
	order, err := c.loadOrder(task, "worker_order_placed_email")
	if err != nil || order == nil {
		return err
	}
	if !c.EmailService.Enabled() {
		logger.Debugw("worker_order_placed_email_skip_disabled", "order_id", order.ID)
		return nil
	}
	user, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_placed_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_order_placed_email_skip_empty_receiver", "order_id", order.ID)
		return nil
	}
	if err := c.EmailService.SendOrderPlaced(ctx, user.Email, order, i18n.DefaultLocale); err != nil {
		return c.emailFailure("worker_order_placed_email_send_failed", user.Email, err)
	}
	return nil
}

func (c *Consumer) handleInvoiceArchive(_ context.Context, task *asynq.Task) error {
	var payload queue.OrderPayload
	if err := decodePayload(task, &payload); err != nil {
		logger.Warnw("worker_invoice_archive_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_invoice_archive_skip_invalid_payload")
		return nil
	}
	path, err := c.InvoiceService.Archive(payload.OrderID)
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		logger.Debugw("worker_invoice_archive_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	case err != nil:
		logger.Warnw("worker_invoice_archive_failed", "order_id", payload.OrderID, "error", err)
		return err
	case path == "":
		logger.Debugw("worker_invoice_archive_skip_disabled", "order_id", payload.OrderID)
	}
	return nil
}

func (c *Consumer) handleOrderEventPublish(ctx context.Context, task *asynq.Task) error {
	order, err := c.loadOrder(task, "worker_order_event")
	if err != nil || order == nil {
		return err
	}
	if err := c.EventPublisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order)); err != nil {
		logger.Warnw("worker_order_event_publish_failed", "order_id", order.ID, "error", err)
		return err
	}
	return nil
}

// loadOrder 解析订单载荷并加载订单，订单不存在时返回 nil, nil
func (c *Consumer) loadOrder(task *asynq.Task, event string) (*models.Order, error) {
	var payload queue.OrderPayload
	if err := decodePayload(task, &payload); err != nil {
		logger.Warnw(event+"_unmarshal_failed", "error", err)
		return nil, err
	}
	if payload.OrderID == 0 {
		logger.Debugw(event + "_skip_invalid_payload")
		return nil, nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw(event+"_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return nil, err
	}
	if order == nil {
		logger.Debugw(event+"_skip_order_not_found", "order_id", payload.OrderID)
		return nil, nil
	}
	return order, nil
}

// emailFailure 地址非法时不再重试
func (c *Consumer) emailFailure(event, receiver string, err error) error {
	logger.Warnw(event, "receiver_email", receiver, "error", err)
	if errors.Is(err, service.ErrInvalidEmail) {
		return nil
	}
	return err
}

func decodePayload(task *asynq.Task, dest interface{}) error {
	if task == nil {
		return errors.New("task is nil")
	}
	return json.Unmarshal(task.Payload(), dest)
}
