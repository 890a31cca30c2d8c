// Package memory 提供进程内的图书仓储实现
//
// 用途:
// 1. 本地开发时不依赖外部数据库
// 2. 单元测试中替代真实后端,校验领域服务和接口层的行为
//
// 语义与持久化后端完全对齐:大小写不敏感的标题比较、
// 标题升序排序、count+1的rawid分配、重启后数据丢失。
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/benhanover/kaplat/internal/domain/book"
)

// bookRepository 图书仓储实现(进程内存)
// 读写都在互斥锁内完成;Create整体持锁,所以单实例内
// 不存在rawid分配竞态(持久化后端有,这里顺带没有)。
type bookRepository struct {
	mu    sync.RWMutex
	books []*book.Book
}

// NewBookRepository 创建图书仓储
func NewBookRepository() book.Repository {
	return &bookRepository{}
}

// Exists 标题是否已存在(忽略大小写)
func (r *bookRepository) Exists(ctx context.Context, title string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if strings.EqualFold(b.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

// Create 创建图书,rawid = 当前记录总数 + 1
func (r *bookRepository) Create(ctx context.Context, b *book.Book) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *b
	stored.RawID = len(r.books) + 1
	stored.Genres = append([]book.Genre(nil), b.Genres...)
	r.books = append(r.books, &stored)

	b.RawID = stored.RawID
	return stored.RawID, nil
}

// FindByRawID 根据rawid查找图书
func (r *bookRepository) FindByRawID(ctx context.Context, id int) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if b.RawID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, book.ErrNotFound(id)
}

// Count 谓词匹配的记录数
func (r *bookRepository) Count(ctx context.Context, f book.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, b := range r.books {
		if matches(b, f) {
			count++
		}
	}
	return count, nil
}

// List 谓词匹配的记录,按标题升序(忽略大小写)
func (r *bookRepository) List(ctx context.Context, f book.Filter) ([]*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*book.Book
	for _, b := range r.books {
		if matches(b, f) {
			copied := *b
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Title) < strings.ToLower(result[j].Title)
	})
	return result, nil
}

// UpdatePrice 更新价格
func (r *bookRepository) UpdatePrice(ctx context.Context, id int, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.books {
		if b.RawID == id {
			b.Price = price
			return nil
		}
	}
	return book.ErrNotFound(id)
}

// Delete 删除图书
func (r *bookRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.books {
		if b.RawID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return nil
		}
	}
	return book.ErrNotFound(id)
}

// matches 判断图书是否满足过滤谓词(各条件合取)
func matches(b *book.Book, f book.Filter) bool {
	if f.Author != "" && !strings.EqualFold(b.Author, f.Author) {
		return false
	}
	if f.PriceMin != nil && b.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && b.Price > *f.PriceMax {
		return false
	}
	if f.YearMin != nil && b.Year < *f.YearMin {
		return false
	}
	if f.YearMax != nil && b.Year > *f.YearMax {
		return false
	}
	if len(f.Genres) > 0 && !genresOverlap(b.Genres, f.Genres) {
		return false
	}
	return true
}

// genresOverlap 两个genre集合是否有交集(match-any语义)
func genresOverlap(have, want []book.Genre) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
