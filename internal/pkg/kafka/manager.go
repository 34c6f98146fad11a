package kafka

import (
	"Microblog/internal/api/config"
	"context"
	"errors"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	consumers []*consumer
}

// NewConsumerManager postsHandler 为 nil 时不启动帖子索引消费者
func NewConsumerManager(cfg *config.Config, messagesHandler *MessagesHandler, postsHandler *PostsHandler) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)
	m := &ConsumerManager{}

	messagesConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaMessageConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	m.consumers = append(m.consumers, &consumer{
		name:    "message",
		topic:   cfg.KafkaMessageConsumer.Topic,
		group:   messagesConsumer,
		handler: messagesHandler,
	})

	if postsHandler != nil {
		postsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaPostConsumer.GroupID, saramaCfg)
		if err != nil {
			_ = m.close()
			return nil, err
		}
		m.consumers = append(m.consumers, &consumer{
			name:    "post",
			topic:   cfg.KafkaPostConsumer.Topic,
			group:   postsConsumer,
			handler: postsHandler,
		})
	}

	return m, nil
}

// Start 阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, c := range m.consumers {
		wg.Add(1)
		go func(c *consumer) {
			defer wg.Done()
			log.Info("consumer started", "name", c.name, "topic", c.topic)
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
					if errors.Is(err, sarama.ErrClosedConsumerGroup) {
						return
					}
					log.Error("Error from consumer", "name", c.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	err := m.close()
	wg.Wait()
	return err
}

func (m *ConsumerManager) close() error {
	var errs []error
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "name", c.name, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
