package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/benhanover/kaplat/internal/domain/book"
	apperrors "github.com/benhanover/kaplat/pkg/errors"
)

// BookModel GORM图书模型
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag;
//    domain/book/entity.go是领域实体,不依赖GORM
// 2. rawid是对外ID,由Create按"当前总数+1"分配,不用自增列
//    (各后端必须用同一套分配规则,自增序列在删除后会漂移)
// 3. genres用PostgreSQL原生text[]列存储,用&&(数组重叠)做match-any过滤
// 4. 标题唯一性按LOWER(title)在查询路径保证,不建唯一索引
//    (与其他后端保持同一种"先查后插"语义,包括它的竞态)
type BookModel struct {
	RawID  int            `gorm:"column:rawid;primaryKey"`
	Title  string         `gorm:"size:200;not null"`
	Author string         `gorm:"size:100;not null"`
	Year   int            `gorm:"not null"`
	Price  float64        `gorm:"not null"`
	Genres pq.StringArray `gorm:"type:text[]"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// bookRepository 图书仓储实现(PostgreSQL)
// 实现domain/book/repository.go定义的接口,
// 负责domain实体与GORM模型之间的转换,并把数据库错误转换为业务错误。
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Exists 标题是否已存在(忽略大小写)
func (r *bookRepository) Exists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookModel{}).
		Where("LOWER(title) = LOWER(?)", title).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "标题查重失败")
	}
	return count > 0, nil
}

// Create 创建图书
// rawid = 当前表内记录总数 + 1。count和insert不在同一事务里,
// 并发创建可能拿到相同的rawid,这是约定好的已知竞态。
func (r *bookRepository) Create(ctx context.Context, b *book.Book) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookModel{}).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计图书总数失败")
	}

	model := &BookModel{
		RawID:  int(count) + 1,
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
		Price:  b.Price,
		Genres: pq.StringArray(book.GenreStrings(b.Genres)),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return 0, apperrors.Wrap(err, "创建图书失败")
	}

	// 回填分配的ID
	b.RawID = model.RawID
	return model.RawID, nil
}

// FindByRawID 根据rawid查找图书
func (r *bookRepository) FindByRawID(ctx context.Context, id int) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).Where("rawid = ?", id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrNotFound(id)
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Count 谓词匹配的记录数
func (r *bookRepository) Count(ctx context.Context, f book.Filter) (int64, error) {
	var count int64
	query := applyFilter(r.db.WithContext(ctx).Model(&BookModel{}), f)
	if err := query.Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计图书失败")
	}
	return count, nil
}

// List 谓词匹配的记录,按标题升序(忽略大小写)
func (r *bookRepository) List(ctx context.Context, f book.Filter) ([]*book.Book, error) {
	var models []BookModel
	query := applyFilter(r.db.WithContext(ctx).Model(&BookModel{}), f)
	if err := query.Order("LOWER(title) ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// UpdatePrice 更新价格
func (r *bookRepository) UpdatePrice(ctx context.Context, id int, price float64) error {
	result := r.db.WithContext(ctx).
		Model(&BookModel{}).
		Where("rawid = ?", id).
		Update("price", price)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新价格失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrNotFound(id)
	}
	return nil
}

// Delete 删除图书
func (r *bookRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Where("rawid = ?", id).Delete(&BookModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrNotFound(id)
	}
	return nil
}

// =========================================
// 辅助函数
// =========================================

// applyFilter 把后端无关的Filter渲染成GORM查询条件
// 语义对齐点:
// - author精确匹配但忽略大小写(LOWER = LOWER)
// - 数值上下界都是闭区间
// - genres用数组重叠运算符&&,任一交集即命中
func applyFilter(query *gorm.DB, f book.Filter) *gorm.DB {
	if f.Author != "" {
		query = query.Where("LOWER(author) = LOWER(?)", f.Author)
	}
	if f.PriceMin != nil {
		query = query.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		query = query.Where("price <= ?", *f.PriceMax)
	}
	if f.YearMin != nil {
		query = query.Where("year >= ?", *f.YearMin)
	}
	if f.YearMax != nil {
		query = query.Where("year <= ?", *f.YearMax)
	}
	if len(f.Genres) > 0 {
		query = query.Where("genres && ?", pq.StringArray(book.GenreStrings(f.Genres)))
	}
	return query
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		RawID:  model.RawID,
		Title:  model.Title,
		Author: model.Author,
		Year:   model.Year,
		Price:  model.Price,
		Genres: book.ParseGenres([]string(model.Genres)),
	}
}
