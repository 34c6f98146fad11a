package consts

// 通知名
const (
	NotificationUnreadMessageCount = "unread_message_count"
)

// 正文长度上限
const (
	MaxPostLength    = 140
	MaxMessageLength = 140
	MaxAboutMeLength = 140
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
	// MaxPage page 上限，保证 offset 不溢出
	MaxPage = 1_000_000
)

type ctxKey string

// BaseURL 请求来源地址，用于拼接邮件中的链接
const BaseURL ctxKey = "base_url"
