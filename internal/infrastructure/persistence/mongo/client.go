package mongo

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/benhanover/kaplat/internal/infrastructure/config"
)

// NewClient 创建MongoDB客户端
// 设计说明：
// 1. 连接超时由配置控制,启动时Ping确认可用性
// 2. 连接池参数使用驱动默认值(默认maxPoolSize=100,对单实例服务足够)
func NewClient(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("MongoDB连接失败: %w", err)
	}

	// 测试连接
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("MongoDB连接测试失败: %w", err)
	}

	log.Println("✓ MongoDB连接成功")
	return client, nil
}

// Collection 返回图书集合句柄
func Collection(client *mongo.Client, cfg *config.Config) *mongo.Collection {
	return client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
}
