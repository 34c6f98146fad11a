package es

import (
	"Microblog/internal/api/config"
	"Microblog/internal/pkg/logger"
	"context"
	log "log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

// Client 未配置地址时为 nil，此时搜索关闭
var Client *elasticsearch.TypedClient

var PostIndex = "posts"

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// InitClient 初始化 Elasticsearch 客户端
func InitClient(elasticCfg config.ElasticConfig) error {
	if elasticCfg.Address == "" {
		log.Info("Elasticsearch disabled, post search unavailable")
		return nil
	}
	if elasticCfg.Indices.PostIndex != "" {
		PostIndex = elasticCfg.Indices.PostIndex
	}

	client, err := NewClient(elasticCfg.Address, elasticCfg.Username, elasticCfg.Password)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	info, err := client.Info().Do(context.Background())
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	Client = client
	log.Info("Connected to Elasticsearch", "version", info.Version.Int)
	return nil
}

// NewClient 带日志 Transport 的客户端
func NewClient(address, username, password string) (*elasticsearch.TypedClient, error) {
	return elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: []string{address},
		Username:  username,
		Password:  password,
		Transport: &logger.ESTransport{
			Transport: http.DefaultTransport,
		},
	})
}
