package book

import (
	"context"

	"github.com/benhanover/kaplat/internal/domain/book"
)

// CreateBookUseCase 图书创建用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO,与HTTP层解耦
// 3. 字段校验、标题查重和多后端写入都由领域服务负责,
//    此用例只做流程编排
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 创建请求DTO
// 指针字段区分"字段缺失"和"零值":price=0合法,price缺失非法。
type CreateBookRequest struct {
	Title    *string  // 书名
	Author   *string  // 作者
	Year     *int     // 出版年份
	Price    *float64 // 价格
	Genres   []string // 类型标签
	Selector string   // persistenceMethod查询参数的原始值
}

// Execute 执行创建用例
// 返回选中后端分配的rawid。
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (int, error) {
	data := book.CreateData{
		Title:  req.Title,
		Author: req.Author,
		Year:   req.Year,
		Price:  req.Price,
		Genres: req.Genres,
	}
	return uc.bookService.Create(ctx, data, req.Selector)
}
