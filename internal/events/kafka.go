package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher 基于 kafka-go Writer 的事件发布
type KafkaPublisher struct {
	writer       *kafka.Writer
	orderTopic   string
	productTopic string
	timeout      time.Duration
}

// NewPublisher 根据配置创建发布器，未启用时返回 NopPublisher
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("events enabled but no brokers configured")
	}
	timeout := time.Duration(cfg.WriteTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           timeout,
		AllowAutoTopicCreation: true,
	}
	logger.Infow("events_kafka_publisher_ready", "brokers", cfg.Brokers)
	return &KafkaPublisher{
		writer:       writer,
		orderTopic:   cfg.OrderTopic,
		productTopic: cfg.ProductTopic,
		timeout:      timeout,
	}, nil
}

// PublishOrderPlaced 以订单 ID 为 key 发布，同一订单落到同一分区
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	msg, err := buildMessage(p.orderTopic, event.OrderID, event)
	if err != nil {
		return err
	}
	return p.write(ctx, msg)
}

// PublishProductChanged 以商品 ID 为 key 发布
func (p *KafkaPublisher) PublishProductChanged(ctx context.Context, event ProductChanged) error {
	msg, err := buildMessage(p.productTopic, event.ProductID, event)
	if err != nil {
		return err
	}
	return p.write(ctx, msg)
}

// Close 关闭 writer 并刷新缓冲
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaPublisher) write(ctx context.Context, msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s failed: %w", msg.Topic, err)
	}
	return nil
}

func buildMessage(topic string, key uint, payload interface{}) (kafka.Message, error) {
	if topic == "" {
		return kafka.Message{}, errors.New("kafka topic is empty")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event failed: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatUint(uint64(key), 10)),
		Value: body,
	}, nil
}
