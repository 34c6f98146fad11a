package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "microblog_http_request_duration_seconds",
		Help:    "HTTP request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	FollowActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_follow_actions_total",
		Help: "Total follow and unfollow operations",
	}, []string{"action"})
	FeedQueries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "microblog_feed_queries_total",
		Help: "Total following feed queries",
	})
	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "microblog_posts_created_total",
		Help: "Total posts created",
	})
	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "microblog_messages_sent_total",
		Help: "Total private messages sent",
	})
	NotificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_notifications_published_total",
		Help: "Total notifications published after commit",
	}, []string{"name"})
	LastSeenFlushed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "microblog_last_seen_flushed_total",
		Help: "Total last_seen rows flushed by the cron job",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPDuration, FollowActions, FeedQueries,
		PostsCreated, MessagesSent, NotificationsPublished, LastSeenFlushed,
	)
}

// ObserveHTTP 记录一次请求
func ObserveHTTP(method, route, status string, start time.Time) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func IncFollow(action string) { FollowActions.WithLabelValues(action).Inc() }

func IncNotification(name string) { NotificationsPublished.WithLabelValues(name).Inc() }
