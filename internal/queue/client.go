package queue

import (
	"fmt"
	"strings"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 订单相关任务队列
	CriticalQueue = constants.QueueCritical
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	return &Client{
		client:       asynq.NewClient(buildRedisOpt(cfg)),
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueUserWelcomeEmail 推送欢迎邮件任务
func (c *Client) EnqueueUserWelcomeEmail(payload UserEmailPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewUserWelcomeEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, asynq.Queue(c.defaultQueue), asynq.MaxRetry(5))
}

// EnqueuePasswordResetEmail 推送密码重置邮件任务
func (c *Client) EnqueuePasswordResetEmail(payload PasswordResetEmailPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPasswordResetEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, asynq.Queue(CriticalQueue), asynq.MaxRetry(3))
}

// EnqueueOrderPlaced 推送下单后的邮件、归档与事件任务
func (c *Client) EnqueueOrderPlaced(payload OrderPayload) error {
	if !c.Enabled() {
		return nil
	}
	builders := []func(OrderPayload) (*asynq.Task, error){
		NewOrderPlacedEmailTask,
		NewInvoiceArchiveTask,
		NewOrderEventPublishTask,
	}
	for _, build := range builders {
		task, err := build(payload)
		if err != nil {
			return err
		}
		if err := c.enqueue(task, asynq.Queue(CriticalQueue)); err != nil {
			return fmt.Errorf("enqueue %s: %w", task.Type(), err)
		}
	}
	return nil
}

func (c *Client) enqueue(task *asynq.Task, opts ...asynq.Option) error {
	_, err := c.client.Enqueue(task, opts...)
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, CriticalQueue: 2}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
