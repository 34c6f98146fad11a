package kafka

import (
	"Microblog/internal/api/config"
	"Microblog/internal/model"
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/es"
	"Microblog/internal/pkg/testutil"
	"Microblog/internal/repository"
	"Microblog/internal/service"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

type fakePostRepo struct {
	indexed map[uint64]*es.PostES
	deleted []uint64
}

func (f *fakePostRepo) SearchPosts(context.Context, string, int, int) ([]*es.PostES, int64, error) {
	return nil, 0, nil
}

func (f *fakePostRepo) IndexPost(_ context.Context, post *es.PostES) error {
	f.indexed[post.ID] = post
	return nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id uint64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func canalMessage(t *testing.T, table, typ string, rows ...map[string]interface{}) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(CanalMessage{Database: "microblog", Table: table, Type: typ, Data: rows})
	if err != nil {
		t.Fatalf("marshal canal message: %v", err)
	}
	return &sarama.ConsumerMessage{Topic: "canal-" + table, Value: value}
}

func TestToCanalMessage(t *testing.T) {
	msg := canalMessage(t, "posts", INSERT, map[string]interface{}{"id": "1"})

	if _, err := ToCanalMessage(msg, "messages"); !errors.Is(err, ErrSkipMessage) {
		t.Fatalf("expected skip for other table, got %v", err)
	}
	got, err := ToCanalMessage(msg, "posts")
	if err != nil {
		t.Fatalf("ToCanalMessage: %v", err)
	}
	if got.Type != INSERT || StrToUint64(got.Data[0]["id"]) != 1 {
		t.Fatalf("unexpected canal message %+v", got)
	}

	bad := &sarama.ConsumerMessage{Value: []byte("{not json")}
	if _, err = ToCanalMessage(bad, "posts"); !errors.Is(err, ErrSkipMessage) {
		t.Fatalf("expected skip for bad json, got %v", err)
	}
	empty := canalMessage(t, "posts", INSERT)
	if _, err = ToCanalMessage(empty, "posts"); !errors.Is(err, ErrSkipMessage) {
		t.Fatalf("expected skip for empty data, got %v", err)
	}
}

func TestStrConversions(t *testing.T) {
	if StrToUint64("42") != 42 || StrToUint64(float64(7)) != 7 || StrToUint64(nil) != 0 {
		t.Fatalf("StrToUint64 conversions wrong")
	}
	if StrToString(nil) != "" || StrToString(12) != "12" {
		t.Fatalf("StrToString conversions wrong")
	}
	want := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	if got := StrToDateTime("2024-05-01 10:30:00"); !got.Equal(want) {
		t.Fatalf("StrToDateTime = %v, want %v", got, want)
	}
	if got := StrToDateTime("2024-05-01 10:30:00.250"); !got.Equal(want.Add(250 * time.Millisecond)) {
		t.Fatalf("fractional seconds lost: %v", got)
	}
	if !StrToDateTime("garbage").IsZero() {
		t.Fatalf("expected zero time for garbage")
	}
}

func TestMessagesHandlerRefreshesUnread(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.NewTestRedis(t)
	ctx := context.Background()

	userRepo := repository.NewUserRepo(db)
	john := &model.User{Username: "john", Email: "john@example.com", LastSeen: time.Now().UTC()}
	susan := &model.User{Username: "susan", Email: "susan@example.com", LastSeen: time.Now().UTC()}
	for _, u := range []*model.User{john, susan} {
		if err := userRepo.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	msg := &model.Message{SenderID: john.ID, RecipientID: susan.ID, Body: "hi"}
	if err := repository.NewMessageRepo(db).CreateMessage(ctx, msg); err != nil {
		t.Fatalf("create message: %v", err)
	}

	notificationSvc := service.NewNotificationService(db)
	handler := NewMessagesHandler(service.NewMessageService(db, notificationSvc))

	err := handler.logic(ctx, canalMessage(t, "messages", INSERT, map[string]interface{}{
		"id":           "1",
		"sender_id":    "1",
		"recipient_id": "2",
		"body":         "hi",
	}))
	if err != nil {
		t.Fatalf("logic: %v", err)
	}

	n, err := repository.NewNotificationRepo(db).GetNotification(ctx, susan.ID, consts.NotificationUnreadMessageCount)
	if err != nil || n == nil {
		t.Fatalf("expected notification, got %+v %v", n, err)
	}
	var count int64
	if err = n.GetData(&count); err != nil || count != 1 {
		t.Fatalf("unread count = %d (%v), want 1", count, err)
	}

	// 接收者已不存在时跳过
	err = handler.logic(ctx, canalMessage(t, "messages", INSERT, map[string]interface{}{"recipient_id": "99"}))
	if err != nil {
		t.Fatalf("missing recipient should be skipped, got %v", err)
	}
	// UPDATE 不影响未读数
	if err = handler.logic(ctx, canalMessage(t, "messages", UPDATE, map[string]interface{}{"recipient_id": "2"})); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestPostsHandlerSyncsIndex(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	userRepo := repository.NewUserRepo(db)
	john := &model.User{Username: "john", Email: "john@example.com", LastSeen: time.Now().UTC()}
	if err := userRepo.CreateUser(ctx, john); err != nil {
		t.Fatalf("create user: %v", err)
	}

	esRepo := &fakePostRepo{indexed: map[uint64]*es.PostES{}}
	handler := NewPostsHandler(userRepo, esRepo)

	row := map[string]interface{}{
		"id":         "5",
		"user_id":    "1",
		"body":       "hello world",
		"created_at": "2024-05-01 10:30:00",
	}
	if err := handler.logic(ctx, canalMessage(t, "posts", INSERT, row)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	post := esRepo.indexed[5]
	if post == nil || post.Username != "john" || post.Body != "hello world" || post.UserID != john.ID {
		t.Fatalf("unexpected indexed post %+v", post)
	}

	if err := handler.logic(ctx, canalMessage(t, "posts", DELETE, row)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(esRepo.deleted) != 1 || esRepo.deleted[0] != 5 {
		t.Fatalf("unexpected deletes %v", esRepo.deleted)
	}
}

func TestNewSaramaConfigDefaults(t *testing.T) {
	c := newSaramaConfig(config.KafkaConfig{})
	if c.Consumer.Group.Session.Timeout != 30*time.Second || c.Consumer.Group.Heartbeat.Interval != 3*time.Second {
		t.Fatalf("unexpected defaults: %v %v", c.Consumer.Group.Session.Timeout, c.Consumer.Group.Heartbeat.Interval)
	}
	if c.Consumer.Offsets.AutoCommit.Enable {
		t.Fatalf("auto commit should be disabled")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}
}
