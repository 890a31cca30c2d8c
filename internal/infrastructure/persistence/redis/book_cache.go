package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/benhanover/kaplat/internal/domain/book"
)

// BookCache 图书仓储的读穿透缓存装饰器
// 设计说明:
// 1. 只缓存按rawid的单条查询,这是读路径里重复率最高的访问;
//    列表/计数的过滤维度太多,缓存命中率低且失效复杂,直接透传
// 2. Key按后端命名空间隔离(books:POSTGRES:id:3),
//    同一个rawid在不同后端可能是不同的书
// 3. 缓存故障降级为直接读底层仓储,Redis不可用不影响正确性
// 4. 写操作先落底层仓储,成功后再删除对应缓存key
type BookCache struct {
	inner   book.Repository
	client  *redis.Client
	backend book.Backend
	ttl     time.Duration
}

// NewBookCache 包装仓储,返回带缓存的实现
func NewBookCache(inner book.Repository, client *redis.Client, backend book.Backend, ttl time.Duration) book.Repository {
	return &BookCache{
		inner:   inner,
		client:  client,
		backend: backend,
		ttl:     ttl,
	}
}

// idKey 单条查询的缓存key
func (c *BookCache) idKey(id int) string {
	return fmt.Sprintf("books:%s:id:%d", c.backend, id)
}

// Exists 透传(标题查重必须看到最新数据)
func (c *BookCache) Exists(ctx context.Context, title string) (bool, error) {
	return c.inner.Exists(ctx, title)
}

// Create 透传(新记录还没有缓存可失效)
func (c *BookCache) Create(ctx context.Context, b *book.Book) (int, error) {
	return c.inner.Create(ctx, b)
}

// FindByRawID 先查缓存,未命中时回源并写入缓存
func (c *BookCache) FindByRawID(ctx context.Context, id int) (*book.Book, error) {
	key := c.idKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached book.Book
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		// 缓存内容损坏:删掉后回源
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		// Redis故障:降级直读,只记日志
		log.Printf("book cache read failed for %s: %v", key, err)
	}

	b, err := c.inner.FindByRawID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(b); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Printf("book cache write failed for %s: %v", key, err)
		}
	}
	return b, nil
}

// Count 透传
func (c *BookCache) Count(ctx context.Context, f book.Filter) (int64, error) {
	return c.inner.Count(ctx, f)
}

// List 透传
func (c *BookCache) List(ctx context.Context, f book.Filter) ([]*book.Book, error) {
	return c.inner.List(ctx, f)
}

// UpdatePrice 更新底层仓储后失效缓存
func (c *BookCache) UpdatePrice(ctx context.Context, id int, price float64) error {
	if err := c.inner.UpdatePrice(ctx, id, price); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// Delete 删除底层记录后失效缓存
func (c *BookCache) Delete(ctx context.Context, id int) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// invalidate 删除单条缓存,失败只记日志(TTL兜底)
func (c *BookCache) invalidate(ctx context.Context, id int) {
	key := c.idKey(id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("book cache invalidation failed for %s: %v", key, err)
	}
}
