package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	// MICROBLOG_DATABASE_DSN 之类的环境变量覆盖文件配置
	v.SetEnvPrefix("microblog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("jwt.issuer", "microblog")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("jwt.reset_expire_mins", 10)
	v.SetDefault("elastic.indices.post_index", "posts")
	v.SetDefault("logstash.index", "logstash-microblog")
	v.SetDefault("rate_limit.login_limit", 10)
	v.SetDefault("rate_limit.login_window", 60)
	v.SetDefault("cron.last_seen_spec", "@every 1m")
}
