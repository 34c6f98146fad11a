package consts

const (
	TokenBlacklistKey   = "token:blacklist:"
	LoginRateLimitKey   = "ratelimit:login:"
	UserLastSeenDirty   = "user:last_seen:dirty"
	NotificationChannel = "notify:user:"
)

const (
	LastSeenFlushLock = "lock:last_seen:flush"
)
