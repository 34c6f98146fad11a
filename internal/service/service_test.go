package service

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/model"
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/metrics"
	"Microblog/internal/pkg/redis"
	"Microblog/internal/pkg/testutil"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

func registerUser(t *testing.T, svc UserService, username string) *dto.UserDTO {
	t.Helper()
	user, err := svc.Register(context.Background(), &dto.RegisterDTO{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "cat",
		Password2: "cat",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	testutil.NewTestRedis(t)
	return testutil.NewTestDB(t)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	svc := NewUserService(db)

	registerUser(t, svc, "john")

	_, err := svc.Register(ctx, &dto.RegisterDTO{Username: "john", Email: "x@example.com", Password: "a", Password2: "a"})
	if !errors.Is(err, ErrUserUsernameExist) {
		t.Fatalf("expected duplicate username, got %v", err)
	}
	_, err = svc.Register(ctx, &dto.RegisterDTO{Username: "susan", Email: "john@example.com", Password: "a", Password2: "a"})
	if !errors.Is(err, ErrUserEmailExist) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
	_, err = svc.Register(ctx, &dto.RegisterDTO{Username: "susan", Email: "susan@example.com", Password: "a", Password2: "b"})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected password mismatch, got %v", err)
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	svc := NewUserService(db)
	registerUser(t, svc, "john")
	registerUser(t, svc, "susan")

	john, _ := svc.GetUserByUsername(ctx, "john")
	susan, _ := svc.GetUserByUsername(ctx, "susan")
	if john.PasswordHash == "cat" || susan.PasswordHash == "cat" {
		t.Fatalf("password stored in plaintext")
	}
	if john.PasswordHash == susan.PasswordHash {
		t.Fatalf("expected different hashes for the same password")
	}
}

func TestLoginLogout(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	svc := NewUserService(db)
	registerUser(t, svc, "john")

	if _, err := svc.Login(ctx, &dto.LoginDTO{Username: "john", Password: "dog"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginDTO{Username: "nobody", Password: "cat"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
	token, err := svc.Login(ctx, &dto.LoginDTO{Username: "john", Password: "cat"})
	if err != nil || token == "" {
		t.Fatalf("login: %q %v", token, err)
	}
	if err = svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err = svc.Logout(ctx, "garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	svc := NewUserService(db)
	registerUser(t, svc, "john")

	token, err := svc.RequestPasswordReset(ctx, "john@example.com")
	if err != nil || token == "" {
		t.Fatalf("request reset: %q %v", token, err)
	}
	if token, _ := svc.RequestPasswordReset(ctx, "nobody@example.com"); token != "" {
		t.Fatalf("expected empty token for unknown email")
	}

	if err = svc.ResetPassword(ctx, token, &dto.ResetPasswordDTO{Password: "dog", Password2: "dog"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err = svc.Login(ctx, &dto.LoginDTO{Username: "john", Password: "dog"}); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
	if err = svc.ResetPassword(ctx, "bad", &dto.ResetPasswordDTO{Password: "x", Password2: "x"}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestEditProfile(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	svc := NewUserService(db)
	john := registerUser(t, svc, "john")
	registerUser(t, svc, "susan")

	about := "hello there"
	updated, err := svc.EditProfile(ctx, john.ID, &dto.EditProfileDTO{Username: "johnny", AboutMe: &about})
	if err != nil {
		t.Fatalf("edit profile: %v", err)
	}
	if updated.Username != "johnny" || updated.AboutMe == nil || *updated.AboutMe != about {
		t.Fatalf("unexpected profile %+v", updated)
	}

	_, err = svc.EditProfile(ctx, john.ID, &dto.EditProfileDTO{Username: "susan"})
	if !errors.Is(err, ErrUserUsernameExist) {
		t.Fatalf("expected duplicate username, got %v", err)
	}
}

func TestTouchLastSeen(t *testing.T) {
	mr := testutil.NewTestRedis(t)
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	john := registerUser(t, svc, "john")

	if err := svc.TouchLastSeen(context.Background(), john.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if v := mr.HGet(consts.UserLastSeenDirty, strconv.FormatUint(john.ID, 10)); v == "" {
		t.Fatalf("expected dirty last_seen entry")
	}
}

func TestFollowService(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	users := NewUserService(db)
	follows := NewUserFollowService(db)

	john := registerUser(t, users, "john")
	susan := registerUser(t, users, "susan")

	// 服务层不限制关注自己，由 handler 拦截
	if err := follows.Follow(ctx, john.ID, john.ID); err != nil {
		t.Fatalf("self follow: %v", err)
	}
	if ok, _ := follows.IsFollowing(ctx, john.ID, john.ID); !ok {
		t.Fatalf("expected self follow to be stored")
	}
	if err := follows.Unfollow(ctx, john.ID, john.ID); err != nil {
		t.Fatalf("self unfollow: %v", err)
	}
	if ok, _ := follows.IsFollowing(ctx, john.ID, john.ID); ok {
		t.Fatalf("expected self follow to be removed")
	}

	for i := 0; i < 2; i++ {
		if err := follows.Follow(ctx, john.ID, susan.ID); err != nil {
			t.Fatalf("follow: %v", err)
		}
	}
	ok, _ := follows.IsFollowing(ctx, john.ID, susan.ID)
	following, _ := follows.GetFollowingCount(ctx, john.ID)
	followers, _ := follows.GetFollowerCount(ctx, susan.ID)
	if !ok || following != 1 || followers != 1 {
		t.Fatalf("after follow: ok=%v following=%d followers=%d", ok, following, followers)
	}

	for i := 0; i < 2; i++ {
		if err := follows.Unfollow(ctx, john.ID, susan.ID); err != nil {
			t.Fatalf("unfollow: %v", err)
		}
	}
	ok, _ = follows.IsFollowing(ctx, john.ID, susan.ID)
	following, _ = follows.GetFollowingCount(ctx, john.ID)
	if ok || following != 0 {
		t.Fatalf("after unfollow: ok=%v following=%d", ok, following)
	}
}

func TestFollowServiceInTransaction(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	users := NewUserService(db)
	follows := NewUserFollowService(db)
	john := registerUser(t, users, "john")
	susan := registerUser(t, users, "susan")

	rollback := errors.New("rollback")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := follows.WithSession(tx).Follow(ctx, john.ID, susan.ID); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("unexpected tx error %v", err)
	}
	if ok, _ := follows.IsFollowing(ctx, john.ID, susan.ID); ok {
		t.Fatalf("follow must be rolled back with the surrounding transaction")
	}
}

func TestPostServiceFeed(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	users := NewUserService(db)
	follows := NewUserFollowService(db)
	posts := NewPostService(db, nil)

	ola := registerUser(t, users, "ola")
	kasia := registerUser(t, users, "kasia")
	asia := registerUser(t, users, "asia")

	now := time.Now().UTC()
	if _, err := posts.CreatePost(ctx, ola.ID, "post from ola", now.Add(time.Second)); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := posts.CreatePost(ctx, kasia.ID, "post from kasia", now.Add(4*time.Second)); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := posts.CreatePost(ctx, asia.ID, "post from asia", now.Add(3*time.Second)); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := follows.Follow(ctx, ola.ID, kasia.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	page, err := posts.GetFollowingPosts(ctx, ola.ID, 1, 1)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	items := page.Items.([]*dto.PostDTO)
	if len(items) != 1 || items[0].Username != "kasia" || !page.HasNext || page.HasPrev {
		t.Fatalf("unexpected first page %+v", page)
	}
	page, _ = posts.GetFollowingPosts(ctx, ola.ID, 2, 1)
	items = page.Items.([]*dto.PostDTO)
	if len(items) != 1 || items[0].Username != "ola" || page.HasNext || !page.HasPrev {
		t.Fatalf("unexpected second page %+v", page)
	}

	explore, _ := posts.GetExplorePosts(ctx, 1, 10)
	if got := len(explore.Items.([]*dto.PostDTO)); got != 3 {
		t.Fatalf("expected 3 explore posts, got %d", got)
	}
	count, _ := posts.GetPostCount(ctx, asia.ID)
	if count != 1 {
		t.Fatalf("expected 1 post for asia, got %d", count)
	}
}

func TestPostServiceValidation(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	posts := NewPostService(db, nil)
	john := registerUser(t, NewUserService(db), "john")

	if _, err := posts.CreatePost(ctx, john.ID, "   ", time.Time{}); !errors.Is(err, ErrPostBodyInvalid) {
		t.Fatalf("expected empty body rejected, got %v", err)
	}
	long := make([]byte, 141)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := posts.CreatePost(ctx, john.ID, string(long), time.Time{}); !errors.Is(err, ErrPostBodyInvalid) {
		t.Fatalf("expected long body rejected, got %v", err)
	}
	if _, err := posts.SearchPosts(ctx, "hello", 1, 10); !errors.Is(err, ErrSearchDisabled) {
		t.Fatalf("expected search disabled, got %v", err)
	}
}

func TestMessageUnreadFlow(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	users := NewUserService(db)
	notifications := NewNotificationService(db)
	messages := NewMessageService(db, notifications)

	john := registerUser(t, users, "john")
	susan := registerUser(t, users, "susan")

	pubsub := redis.Subscribe(ctx, NotificationChannel(susan.ID))
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if _, err := messages.SendMessage(ctx, john.ID, susan.ID, "hi susan"); err != nil {
		t.Fatalf("send: %v", err)
	}
	count, err := messages.GetUnreadCount(ctx, susan.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 unread, got %d %v", count, err)
	}

	select {
	case msg := <-pubsub.Channel():
		var pushed dto.NotificationDTO
		if err = json.Unmarshal([]byte(msg.Payload), &pushed); err != nil {
			t.Fatalf("decode push: %v", err)
		}
		if pushed.Name != consts.NotificationUnreadMessageCount {
			t.Fatalf("unexpected push %+v", pushed)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a pushed notification")
	}

	list, err := notifications.GetNotifications(ctx, susan.ID, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("notifications: %+v %v", list, err)
	}
	if v, ok := list[0].Data.(float64); !ok || v != 1 {
		t.Fatalf("expected unread payload 1, got %#v", list[0].Data)
	}

	inbox, err := messages.GetInbox(ctx, susan.ID, 1, 10)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	items := inbox.Items.([]*dto.MessageDTO)
	if len(items) != 1 || items[0].SenderUsername != "john" || items[0].Body != "hi susan" {
		t.Fatalf("unexpected inbox %+v", items)
	}
	count, _ = messages.GetUnreadCount(ctx, susan.ID)
	if count != 0 {
		t.Fatalf("expected 0 unread after viewing inbox, got %d", count)
	}
	list, _ = notifications.GetNotifications(ctx, susan.ID, 0)
	if len(list) != 1 || list[0].Data.(float64) != 0 {
		t.Fatalf("expected notification reset to 0, got %+v", list)
	}

	if _, err = messages.SendMessage(ctx, john.ID, 9999, "hi"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected unknown recipient, got %v", err)
	}
	if _, err = messages.SendMessage(ctx, john.ID, susan.ID, ""); !errors.Is(err, ErrMessageBodyInvalid) {
		t.Fatalf("expected empty body rejected, got %v", err)
	}
}

func TestAddNotificationRoundTrip(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	svc := NewNotificationService(db)
	john := registerUser(t, NewUserService(db), "john")

	payload := map[string]interface{}{"text": "hello", "n": float64(3)}
	n, err := svc.AddNotification(ctx, john.ID, "test", payload)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if n.Name != "test" {
		t.Fatalf("unexpected name %q", n.Name)
	}
	var got map[string]interface{}
	if err = n.GetData(&got); err != nil {
		t.Fatalf("get data: %v", err)
	}
	if got["text"] != "hello" || got["n"] != float64(3) {
		t.Fatalf("payload mismatch: %v", got)
	}

	again, err := svc.AddNotification(ctx, john.ID, "test", 7)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	var seven int
	if err = again.GetData(&seven); err != nil || seven != 7 {
		t.Fatalf("expected replaced payload 7, got %d %v", seven, err)
	}

	var rows int64
	db.Model(&model.Notification{}).Where("user_id = ?", john.ID).Count(&rows)
	if rows != 1 {
		t.Fatalf("expected a single notification row, got %d", rows)
	}

	list, _ := svc.GetNotifications(ctx, john.ID, again.Timestamp)
	if len(list) != 0 {
		t.Fatalf("expected no notifications after latest timestamp, got %d", len(list))
	}
	if _, err = svc.AddNotification(ctx, john.ID, "", 1); !errors.Is(err, ErrNotificationNameNull) {
		t.Fatalf("expected empty name rejected, got %v", err)
	}
}

func TestNotificationMetricCountsCommittedOnly(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	users := NewUserService(db)
	notifications := NewNotificationService(db)
	messages := NewMessageService(db, notifications)
	john := registerUser(t, users, "john")
	susan := registerUser(t, users, "susan")

	published := func() float64 {
		return promtest.ToFloat64(metrics.NotificationsPublished.WithLabelValues(consts.NotificationUnreadMessageCount))
	}
	before := published()

	rollback := errors.New("rollback")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := notifications.WithSession(tx).
			AddNotification(ctx, susan.ID, consts.NotificationUnreadMessageCount, 10); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("unexpected tx error %v", err)
	}
	if _, err = messages.SendMessage(ctx, john.ID, 9999, "hi"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected unknown recipient, got %v", err)
	}
	if got := published(); got != before {
		t.Fatalf("rolled back notifications must not be counted, got %v want %v", got, before)
	}
	if list, _ := notifications.GetNotifications(ctx, susan.ID, 0); len(list) != 0 {
		t.Fatalf("expected rolled back notification to be gone, got %+v", list)
	}

	if _, err = messages.SendMessage(ctx, john.ID, susan.ID, "hi susan"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := published(); got != before+1 {
		t.Fatalf("expected one committed notification counted, got %v want %v", got, before+1)
	}
}
