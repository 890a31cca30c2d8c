package book

import (
	apperrors "github.com/benhanover/kaplat/pkg/errors"
)

// 图书领域错误定义
// 错误消息面向客户端,文本与对外接口约定一致;
// 携带具体标题/ID的错误通过构造函数生成。

// errMissingField 缺少必填字段(title/author/year/price/genres)
func errMissingField() error {
	return apperrors.ErrMissingField
}

// errInvalidGenre genre不在固定词表内
func errInvalidGenre() error {
	return apperrors.ErrInvalidGenre
}

// errDuplicateTitle 标题已存在(大小写不敏感比较)
func errDuplicateTitle(title string) error {
	return apperrors.Newf(apperrors.ErrCodeDuplicateTitle,
		"Error: Book with the title [%s] already exists in the system", title)
}

// errInvalidYear 年份不在[1940, 2100]范围内
func errInvalidYear(year int) error {
	return apperrors.Newf(apperrors.ErrCodeInvalidYear,
		"Error: Can't create new Book that its year [%d] is not in the accepted range [%d -> %d]",
		year, MinYear, MaxYear)
}

// errNegativeCreatePrice 创建时价格为负
func errNegativeCreatePrice() error {
	return apperrors.New(apperrors.ErrCodeNegativePrice,
		"Error: Can't create new Book with negative price")
}

// errNegativeUpdatePrice 更新时价格为负
func errNegativeUpdatePrice(id int) error {
	return apperrors.Newf(apperrors.ErrCodeNegativePrice,
		"Error: price update for book [%d] must be a positive integer", id)
}

// ErrNotFound 图书不存在
// 存储网关与领域服务共用,保证各后端的not-found语义一致。
func ErrNotFound(id int) error {
	return apperrors.Newf(apperrors.ErrCodeNotFound,
		"Error: no such Book with id %d", id)
}
