package book

import (
	"context"

	"github.com/benhanover/kaplat/internal/domain/book"
)

// UpdatePriceUseCase 价格更新用例
// 价格是图书创建后唯一允许变更的字段。
type UpdatePriceUseCase struct {
	bookService book.Service
}

// NewUpdatePriceUseCase 创建价格更新用例
func NewUpdatePriceUseCase(bookService book.Service) *UpdatePriceUseCase {
	return &UpdatePriceUseCase{
		bookService: bookService,
	}
}

// Execute 执行价格更新
// 返回更新前的价格(来自选中的后端)。
func (uc *UpdatePriceUseCase) Execute(ctx context.Context, id int, price float64, selector string) (float64, error) {
	return uc.bookService.UpdatePrice(ctx, id, price, selector)
}
