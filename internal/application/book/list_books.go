package book

import (
	"context"

	"github.com/benhanover/kaplat/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 过滤条件来自查询参数,全部可选,合取生效
// 2. 结果按标题升序(忽略大小写),排序由存储网关保证
// 3. 不分页:这是对外接口的约定,结果集按习题规模不会太大
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表/计数查询请求DTO
type ListBooksRequest struct {
	Author    string   // 作者(精确匹配,忽略大小写)
	PriceMin  *float64 // price-bigger-than
	PriceMax  *float64 // price-less-than
	YearMin   *int     // year-bigger-than
	YearMax   *int     // year-less-than
	GenresCSV string   // genres(逗号分隔)
	Selector  string   // persistenceMethod查询参数的原始值
}

// params 请求DTO → 领域层过滤参数
func (req ListBooksRequest) params() book.FilterParams {
	return book.FilterParams{
		Author:    req.Author,
		PriceMin:  req.PriceMin,
		PriceMax:  req.PriceMax,
		YearMin:   req.YearMin,
		YearMax:   req.YearMax,
		GenresCSV: req.GenresCSV,
	}
}

// Execute 执行列表查询
// 无匹配时返回空数组(不是null),方便客户端直接遍历。
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]*BookDTO, error) {
	books, err := uc.bookService.List(ctx, req.params(), req.Selector)
	if err != nil {
		return nil, err
	}

	list := make([]*BookDTO, len(books))
	for i, b := range books {
		list[i] = toBookDTO(b)
	}
	return list, nil
}

// CountBooksUseCase 图书计数用例
// 与列表查询共用同一套过滤条件。
type CountBooksUseCase struct {
	bookService book.Service
}

// NewCountBooksUseCase 创建计数用例
func NewCountBooksUseCase(bookService book.Service) *CountBooksUseCase {
	return &CountBooksUseCase{
		bookService: bookService,
	}
}

// Execute 执行计数查询
func (uc *CountBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (int64, error) {
	return uc.bookService.Count(ctx, req.params(), req.Selector)
}
