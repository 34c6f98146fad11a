package kafka

import (
	"context"
	"errors"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	batchSize        = 32
	batchTimeout     = 1 * time.Second
	maxRetryInterval = 5 * time.Second
)

// ErrSkipMessage 业务上无需重试的消息
var ErrSkipMessage = errors.New("skip message")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 攒批后执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，全部成功后提交最后一条 offset
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			runWithRetry(session.Context(), m, logic)
		}(msg)
	}
	wg.Wait()

	if session.Context().Err() != nil {
		return
	}
	lastMsg := messages[len(messages)-1]
	session.MarkMessage(lastMsg, "")
	session.Commit()
}

// runWithRetry 指数退避重试，直到成功、可跳过或 ctx 结束
func runWithRetry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	retryInterval := 100 * time.Millisecond
	for {
		err := logic(ctx, m)
		if err == nil {
			return
		}
		if errors.Is(err, ErrSkipMessage) {
			log.WarnContext(ctx, "skip message", "topic", m.Topic, "offset", m.Offset, "err", err)
			return
		}
		log.ErrorContext(ctx, "process message error", "topic", m.Topic, "offset", m.Offset, "err", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryInterval):
		}
		retryInterval *= 2
		if retryInterval > maxRetryInterval {
			retryInterval = maxRetryInterval
		}
	}
}

// ToCanalMessage 表名不符或 DDL 时返回 ErrSkipMessage
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		return nil, errors.Join(ErrSkipMessage, err)
	}
	if canalMsg.IsDDL || canalMsg.Table != tableName {
		return nil, ErrSkipMessage
	}
	if len(canalMsg.Data) == 0 {
		return nil, errors.Join(ErrSkipMessage, errors.New("data is empty"))
	}
	return &canalMsg, nil
}
