package book

import (
	"context"

	"github.com/benhanover/kaplat/internal/domain/book"
)

// DeleteBookUseCase 图书删除用例
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
	}
}

// Execute 执行删除
// 返回被删除的rawid。
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id int, selector string) (int, error) {
	return uc.bookService.Delete(ctx, id, selector)
}
