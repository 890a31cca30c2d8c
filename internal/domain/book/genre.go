package book

import "strings"

// Genre 图书类型标签
// 设计说明:
// 1. 固定封闭词表,六个合法取值,校验时逐一比对
// 2. 词表之外的任何取值都是非法输入,创建和过滤共用同一套校验
type Genre string

const (
	GenreSciFi        Genre = "SCI_FI"
	GenreNovel        Genre = "NOVEL"
	GenreHistory      Genre = "HISTORY"
	GenreManga        Genre = "MANGA"
	GenreRomance      Genre = "ROMANCE"
	GenreProfessional Genre = "PROFESSIONAL"
)

// validGenres 合法genre词表
var validGenres = map[Genre]struct{}{
	GenreSciFi:        {},
	GenreNovel:        {},
	GenreHistory:      {},
	GenreManga:        {},
	GenreRomance:      {},
	GenreProfessional: {},
}

// IsValid 判断genre是否在词表内
func (g Genre) IsValid() bool {
	_, ok := validGenres[g]
	return ok
}

// ValidateGenres 校验genre列表
// 空列表通过校验;任何一个成员不在词表内则整体失败。
func ValidateGenres(genres []string) error {
	for _, g := range genres {
		if !Genre(g).IsValid() {
			return errInvalidGenre()
		}
	}
	return nil
}

// ParseGenres 将字符串列表转换为Genre列表
// 调用方需先通过ValidateGenres校验。
func ParseGenres(genres []string) []Genre {
	out := make([]Genre, len(genres))
	for i, g := range genres {
		out[i] = Genre(g)
	}
	return out
}

// ParseGenresCSV 解析逗号分隔的genre列表(查询参数形式)
// 空串返回nil;任何成员不在词表内返回InvalidGenre错误。
func ParseGenresCSV(csv string) ([]Genre, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	if err := ValidateGenres(parts); err != nil {
		return nil, err
	}
	return ParseGenres(parts), nil
}

// GenreStrings Genre列表 → 字符串列表(存储层使用)
func GenreStrings(genres []Genre) []string {
	out := make([]string, len(genres))
	for i, g := range genres {
		out[i] = string(g)
	}
	return out
}
