package book

import (
	"context"
)

// Backend 存储后端标识
// 对外暴露为persistenceMethod查询参数的取值。
type Backend string

const (
	// BackendMongo 文档存储(MongoDB)
	BackendMongo Backend = "MONGO"
	// BackendPostgres 关系存储(PostgreSQL)
	BackendPostgres Backend = "POSTGRES"
	// BackendMemory 进程内存储(本地开发/测试)
	BackendMemory Backend = "MEMORY"
)

// ParseBackend 解析请求级后端选择器
// 无法识别或为空时返回fallback(配置的主后端)。
func ParseBackend(s string, fallback Backend) Backend {
	switch Backend(s) {
	case BackendMongo, BackendPostgres, BackendMemory:
		return Backend(s)
	default:
		return fallback
	}
}

// Repository 存储网关接口(每个后端一个实现)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(依赖倒置)
// 2. 所有后端共享同一契约:大小写不敏感的标题比较、
//    标题升序(忽略大小写)的列表排序、count+1的rawid分配
// 3. 后端故障统一包装为StorageError向上传播;调用方不能假设
//    任何跨调用的部分成功语义
type Repository interface {
	// Exists 标题是否已存在(精确匹配,忽略大小写)
	Exists(ctx context.Context, title string) (bool, error)

	// Create 持久化图书并返回分配的rawid
	// rawid = 当前记录总数 + 1。并发创建时两次调用可能算出同一个
	// rawid,这是已知的竞态,按约定不修复。
	Create(ctx context.Context, b *Book) (int, error)

	// FindByRawID 按rawid查找,不存在时返回NotFound错误
	FindByRawID(ctx context.Context, id int) (*Book, error)

	// Count 谓词匹配的记录数
	Count(ctx context.Context, f Filter) (int64, error)

	// List 谓词匹配的记录,按标题升序(忽略大小写)
	List(ctx context.Context, f Filter) ([]*Book, error)

	// UpdatePrice 更新指定rawid的价格,无匹配记录时返回NotFound错误
	UpdatePrice(ctx context.Context, id int, price float64) error

	// Delete 删除指定rawid的记录,无匹配记录时返回NotFound错误
	Delete(ctx context.Context, id int) error
}

// ConfiguredBackend 一个已配置的后端及其网关
type ConfiguredBackend struct {
	Name Backend
	Repo Repository
}
