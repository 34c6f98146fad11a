package model

// AllModels 需要迁移的全部模型
func AllModels() []any {
	return []any{&User{}, &UserFollow{}, &Post{}, &Message{}, &Notification{}}
}
