package kafka

import (
	"Microblog/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// MessagesHandler 消费 messages 表的变更，刷新接收者的未读数通知
type MessagesHandler struct {
	messageSvc service.MessageService
}

func NewMessagesHandler(messageSvc service.MessageService) *MessagesHandler {
	return &MessagesHandler{messageSvc: messageSvc}
}

func (s *MessagesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("message consumer setup")
	return nil
}

func (s *MessagesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("message consumer cleanup")
	return nil
}

func (s *MessagesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.logic)
}

func (s *MessagesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "messages")
	if err != nil {
		return err
	}
	if canalMsg.Type != INSERT && canalMsg.Type != DELETE {
		return nil
	}

	recipients := make(map[uint64]struct{})
	for _, row := range canalMsg.Data {
		if id := StrToUint64(row["recipient_id"]); id != 0 {
			recipients[id] = struct{}{}
		}
	}
	for recipientID := range recipients {
		_, err = s.messageSvc.RefreshUnreadNotification(ctx, recipientID)
		if errors.Is(err, service.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
