package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/benhanover/kaplat/internal/domain/book"
	apperrors "github.com/benhanover/kaplat/pkg/errors"
)

// bookDocument MongoDB图书文档
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含bson tag;
//    领域实体不依赖驱动类型
// 2. rawid是对外ID,_id由驱动自动生成,不对外暴露
type bookDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	RawID  int                `bson:"rawid"`
	Title  string             `bson:"title"`
	Author string             `bson:"author"`
	Year   int                `bson:"year"`
	Price  float64            `bson:"price"`
	Genres []string           `bson:"genres"`
}

// bookRepository 图书仓储实现(MongoDB)
// 实现domain/book/repository.go定义的接口。
// 大小写不敏感匹配用锚定正则(^...$ + i标志)实现,
// 排序用collation(strength=2)实现忽略大小写的标题升序。
type bookRepository struct {
	coll *mongo.Collection
}

// NewBookRepository 创建图书仓储
func NewBookRepository(coll *mongo.Collection) book.Repository {
	return &bookRepository{coll: coll}
}

// Exists 标题是否已存在(忽略大小写)
func (r *bookRepository) Exists(ctx context.Context, title string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"title": ciExact(title)})
	if err != nil {
		return false, apperrors.Wrap(err, "标题查重失败")
	}
	return count > 0, nil
}

// Create 创建图书
// rawid = 当前文档总数 + 1。count和insert不是原子的,
// 并发创建可能拿到相同的rawid,这是约定好的已知竞态。
func (r *bookRepository) Create(ctx context.Context, b *book.Book) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperrors.Wrap(err, "统计图书总数失败")
	}

	doc := bookDocument{
		RawID:  int(count) + 1,
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
		Price:  b.Price,
		Genres: book.GenreStrings(b.Genres),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return 0, apperrors.Wrap(err, "创建图书失败")
	}

	b.RawID = doc.RawID
	return doc.RawID, nil
}

// FindByRawID 根据rawid查找图书
func (r *bookRepository) FindByRawID(ctx context.Context, id int) (*book.Book, error) {
	var doc bookDocument
	err := r.coll.FindOne(ctx, bson.M{"rawid": id}).Decode(&doc)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, book.ErrNotFound(id)
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&doc), nil
}

// Count 谓词匹配的文档数
func (r *bookRepository) Count(ctx context.Context, f book.Filter) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, buildQuery(f))
	if err != nil {
		return 0, apperrors.Wrap(err, "统计图书失败")
	}
	return count, nil
}

// List 谓词匹配的文档,按标题升序(忽略大小写)
func (r *bookRepository) List(ctx context.Context, f book.Filter) ([]*book.Book, error) {
	// collation strength=2:忽略大小写,保留重音区分
	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetCollation(&options.Collation{Locale: "en", Strength: 2})

	cursor, err := r.coll.Find(ctx, buildQuery(f), opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	defer cursor.Close(ctx)

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "读取查询结果失败")
	}

	books := make([]*book.Book, len(docs))
	for i := range docs {
		books[i] = toBookEntity(&docs[i])
	}
	return books, nil
}

// UpdatePrice 更新价格
func (r *bookRepository) UpdatePrice(ctx context.Context, id int, price float64) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"rawid": id},
		bson.M{"$set": bson.M{"price": price}},
	)
	if err != nil {
		return apperrors.Wrap(err, "更新价格失败")
	}
	if result.MatchedCount == 0 {
		return book.ErrNotFound(id)
	}
	return nil
}

// Delete 删除图书
func (r *bookRepository) Delete(ctx context.Context, id int) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"rawid": id})
	if err != nil {
		return apperrors.Wrap(err, "删除图书失败")
	}
	if result.DeletedCount == 0 {
		return book.ErrNotFound(id)
	}
	return nil
}

// =========================================
// 辅助函数
// =========================================

// ciExact 大小写不敏感的精确匹配(锚定正则)
// 正则元字符先转义,避免标题里的[]()等字符改变匹配语义。
func ciExact(value string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(value) + "$",
		Options: "i",
	}
}

// buildQuery 把后端无关的Filter渲染成MongoDB查询文档
// 语义对齐点:
// - author精确匹配但忽略大小写(锚定正则 + i)
// - 数值上下界都是闭区间($gte/$lte)
// - genres用$in,任一交集即命中
func buildQuery(f book.Filter) bson.M {
	query := bson.M{}

	if f.Author != "" {
		query["author"] = ciExact(f.Author)
	}

	price := bson.M{}
	if f.PriceMin != nil {
		price["$gte"] = *f.PriceMin
	}
	if f.PriceMax != nil {
		price["$lte"] = *f.PriceMax
	}
	if len(price) > 0 {
		query["price"] = price
	}

	year := bson.M{}
	if f.YearMin != nil {
		year["$gte"] = *f.YearMin
	}
	if f.YearMax != nil {
		year["$lte"] = *f.YearMax
	}
	if len(year) > 0 {
		query["year"] = year
	}

	if len(f.Genres) > 0 {
		query["genres"] = bson.M{"$in": book.GenreStrings(f.Genres)}
	}

	return query
}

// toBookEntity MongoDB文档 → 领域实体
func toBookEntity(doc *bookDocument) *book.Book {
	return &book.Book{
		RawID:  doc.RawID,
		Title:  doc.Title,
		Author: doc.Author,
		Year:   doc.Year,
		Price:  doc.Price,
		Genres: book.ParseGenres(doc.Genres),
	}
}
