// Package events 發送商品、收藏與直播的事件，不等待結果
package events

import (
	"Market/logger"
	"context"
	"encoding/json"
	"github.com/segmentio/kafka-go"
	"strconv"
	"time"
)

const (
	ProductCreated  = "product.created"
	FavoriteToggled = "favorite.toggled"
	StreamCreated   = "stream.created"
	MessageCreated  = "stream.message.created"
)

type Event struct {
	Type     string    `json:"type"`
	EntityID uint      `json:"entityId"`
	UserID   uint      `json:"userId"`
	Liked    *bool     `json:"liked,omitempty"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

// 未設定 broker 時使用，事件直接丟棄
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

func (Nop) Close() error { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			Async:        true,
			BatchTimeout: 50 * time.Millisecond,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					logger.Error().Err(err).Int("count", len(messages)).Msg("無法送出事件")
				}
			},
		},
	}
}

// 同一實體的事件使用相同 key，維持分區內順序
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	value, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("type", event.Type).Msg("無法序列化事件")
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type + ":" + strconv.FormatUint(uint64(event.EntityID), 10)),
		Value: value,
	})
	if err != nil {
		logger.Error().Err(err).Str("type", event.Type).Msg("無法送出事件")
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// 依 broker 設定選擇實作
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewKafkaPublisher(brokers, topic)
}
