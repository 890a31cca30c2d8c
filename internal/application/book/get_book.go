package book

import (
	"context"

	"github.com/benhanover/kaplat/internal/domain/book"
)

// GetBookUseCase 单本图书查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
	}
}

// BookDTO 图书响应DTO
// id是对外的rawid,存储内部主键(_id/行ID)不对外暴露。
type BookDTO struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Year   int      `json:"year"`
	Price  float64  `json:"price"`
	Genres []string `json:"genres"`
}

// toBookDTO 领域实体 → 响应DTO
func toBookDTO(b *book.Book) *BookDTO {
	return &BookDTO{
		ID:     b.RawID,
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
		Price:  b.Price,
		Genres: book.GenreStrings(b.Genres),
	}
}

// Execute 按rawid查询单本图书
func (uc *GetBookUseCase) Execute(ctx context.Context, id int, selector string) (*BookDTO, error) {
	b, err := uc.bookService.Get(ctx, id, selector)
	if err != nil {
		return nil, err
	}
	return toBookDTO(b), nil
}
