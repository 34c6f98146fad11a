package wire

import (
	"Microblog/internal/api/config"
	"Microblog/internal/pkg/testutil"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c *client) do(method, path, token string, body any) envelope {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		c.t.Fatalf("%s %s: http status %d", method, path, rec.Code)
	}

	var resp envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		c.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return resp
}

func (c *client) ok(method, path, token string, body any) envelope {
	c.t.Helper()
	resp := c.do(method, path, token, body)
	if resp.Code != 200 {
		c.t.Fatalf("%s %s: code %d message %q", method, path, resp.Code, resp.Message)
	}
	return resp
}

func (c *client) register(username string) {
	c.t.Helper()
	c.ok(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "cat",
		"password2": "cat",
	})
}

func (c *client) login(username string) string {
	c.t.Helper()
	resp := c.ok(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "cat",
	})
	var token struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &token); err != nil || token.Token == "" {
		c.t.Fatalf("login %s: %v %s", username, err, resp.Data)
	}
	return token.Token
}

func newTestApp(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	testutil.NewTestRedis(t)

	cfg := &config.Config{
		RateLimit: config.RateLimitConfig{LoginLimit: 100, LoginWindow: 60},
		Metrics:   config.MetricsConfig{Enable: true},
	}
	app, err := BuildApplication(db, cfg)
	if err != nil {
		t.Fatalf("BuildApplication: %v", err)
	}
	if app.KafkaManager != nil {
		t.Fatalf("kafka manager should be nil when disabled")
	}
	return &client{t: t, router: app.Router}
}

func TestMicroblogFlow(t *testing.T) {
	c := newTestApp(t)

	c.register("john")
	c.register("susan")

	dup := c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "john", "email": "other@example.com", "password": "cat", "password2": "cat",
	})
	if dup.Code != 400 || dup.Message != "Please use a different username." {
		t.Fatalf("duplicate username: %+v", dup)
	}
	dup = c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "johnny", "email": "john@example.com", "password": "cat", "password2": "cat",
	})
	if dup.Code != 400 || dup.Message != "Please use a different email address." {
		t.Fatalf("duplicate email: %+v", dup)
	}

	bad := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "john", "password": "dog"})
	if bad.Code != 401 || bad.Message != "Invalid username or password" {
		t.Fatalf("bad login: %+v", bad)
	}

	john := c.login("john")
	susan := c.login("susan")

	if resp := c.ok(http.MethodPost, "/api/index", john, map[string]string{"post": "post from john"}); resp.Message != "Your post is now live!" {
		t.Fatalf("create post message %q", resp.Message)
	}
	c.ok(http.MethodPost, "/api/index", susan, map[string]string{"post": "post from susan"})

	if resp := c.do(http.MethodPost, "/api/index", john, map[string]string{"post": "   "}); resp.Code != 400 {
		t.Fatalf("blank post should fail, got %+v", resp)
	}

	if resp := c.ok(http.MethodPost, "/api/follow/susan", john, nil); resp.Message != "You are following susan!" {
		t.Fatalf("follow message %q", resp.Message)
	}
	// 重复关注不报错
	c.ok(http.MethodPost, "/api/follow/susan", john, nil)

	if resp := c.do(http.MethodPost, "/api/follow/nobody", john, nil); resp.Code != 404 || resp.Message != "User nobody not found." {
		t.Fatalf("follow unknown: %+v", resp)
	}
	if resp := c.do(http.MethodPost, "/api/follow/john", john, nil); resp.Code != 400 || resp.Message != "You cannot follow yourself!" {
		t.Fatalf("follow self: %+v", resp)
	}
	if resp := c.do(http.MethodPost, "/api/unfollow/john", john, nil); resp.Code != 400 || resp.Message != "You cannot unfollow yourself!" {
		t.Fatalf("unfollow self: %+v", resp)
	}

	var feed struct {
		Items []struct {
			Body     string `json:"body"`
			Username string `json:"username"`
		} `json:"items"`
		HasNext bool `json:"has_next"`
	}
	resp := c.ok(http.MethodGet, "/api/index", john, nil)
	if err := json.Unmarshal(resp.Data, &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feed.Items) != 2 || feed.Items[0].Username != "susan" || feed.Items[1].Username != "john" {
		t.Fatalf("unexpected feed %+v", feed)
	}

	var profile struct {
		PostsCount     int64 `json:"posts_count"`
		FollowersCount int64 `json:"followers_count"`
		FollowingCount int64 `json:"following_count"`
		IsFollowing    bool  `json:"is_following"`
	}
	resp = c.ok(http.MethodGet, "/api/user/susan", john, nil)
	if err := json.Unmarshal(resp.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.PostsCount != 1 || profile.FollowersCount != 1 || profile.FollowingCount != 0 || !profile.IsFollowing {
		t.Fatalf("unexpected profile %+v", profile)
	}

	if resp = c.ok(http.MethodPost, "/api/unfollow/susan", john, nil); resp.Message != "You are not following susan." {
		t.Fatalf("unfollow message %q", resp.Message)
	}
	resp = c.ok(http.MethodGet, "/api/index", john, nil)
	if err := json.Unmarshal(resp.Data, &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].Username != "john" {
		t.Fatalf("feed after unfollow %+v", feed)
	}

	// 私信与未读通知
	if resp = c.ok(http.MethodPost, "/api/send_message/john", susan, map[string]string{"message": "hi john"}); resp.Message != "Your message has been sent." {
		t.Fatalf("send message %q", resp.Message)
	}
	var notifications []struct {
		Name      string  `json:"name"`
		Data      float64 `json:"data"`
		Timestamp float64 `json:"timestamp"`
	}
	resp = c.ok(http.MethodGet, "/api/notifications?since=0", john, nil)
	if err := json.Unmarshal(resp.Data, &notifications); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Name != "unread_message_count" || notifications[0].Data != 1 {
		t.Fatalf("unexpected notifications %+v", notifications)
	}

	c.ok(http.MethodGet, "/api/messages", john, nil)
	var unread struct {
		Count int64 `json:"count"`
	}
	resp = c.ok(http.MethodGet, "/api/messages/unread", john, nil)
	if err := json.Unmarshal(resp.Data, &unread); err != nil || unread.Count != 0 {
		t.Fatalf("unread after inbox = %+v (%v)", unread, err)
	}

	if resp = c.do(http.MethodGet, "/api/notifications?since=abc", john, nil); resp.Code != 400 {
		t.Fatalf("bad since should fail, got %+v", resp)
	}
	if resp = c.do(http.MethodGet, "/api/search?q=john", john, nil); resp.Code != 503 {
		t.Fatalf("search without elasticsearch should be disabled, got %+v", resp)
	}

	c.ok(http.MethodPost, "/api/auth/logout", john, nil)
	if resp = c.do(http.MethodGet, "/api/index", john, nil); resp.Code != 401 {
		t.Fatalf("token should be revoked after logout, got %+v", resp)
	}
	if resp = c.do(http.MethodGet, "/api/index", "", nil); resp.Code != 401 {
		t.Fatalf("missing token should be rejected, got %+v", resp)
	}
}

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	testutil.NewTestRedis(t)

	app, err := BuildApplication(db, &config.Config{
		RateLimit: config.RateLimitConfig{LoginLimit: 2, LoginWindow: 60},
	})
	if err != nil {
		t.Fatalf("BuildApplication: %v", err)
	}
	c := &client{t: t, router: app.Router}

	body := map[string]string{"username": "ghost", "password": "x"}
	for i := 0; i < 2; i++ {
		if resp := c.do(http.MethodPost, "/api/auth/login", "", body); resp.Code != 401 {
			t.Fatalf("attempt %d: %+v", i, resp)
		}
	}
	if resp := c.do(http.MethodPost, "/api/auth/login", "", body); resp.Code != 429 {
		t.Fatalf("expected rate limited, got %+v", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	c := newTestApp(t)
	c.ok(http.MethodGet, "/api/ping", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("microblog_http_requests_total")) {
		t.Fatalf("metrics endpoint: %d", rec.Code)
	}
}
