package book

// Filter 后端无关的查询谓词
// 设计说明:
// 1. 所有条件为可选,最终谓词是各条件的合取
// 2. Author是精确匹配(忽略大小写),不是子串匹配
// 3. 数值上下界都是闭区间,且各自独立生效
// 4. Genres是"交集非空"语义(match-any),不是"全部包含"
// 各存储网关负责把Filter渲染成自己的查询形式,语义必须保持一致。
type Filter struct {
	Author   string   // 作者,精确匹配(忽略大小写),空串表示不过滤
	PriceMin *float64 // 价格下界(含),nil表示不限
	PriceMax *float64 // 价格上界(含),nil表示不限
	YearMin  *int     // 年份下界(含),nil表示不限
	YearMax  *int     // 年份上界(含),nil表示不限
	Genres   []Genre  // genre列表,与图书genre集合求交,空表示不过滤
}

// FilterParams 来自查询参数的原始过滤条件
// Genres是逗号分隔的原始字符串,构造Filter时校验词表。
type FilterParams struct {
	Author    string
	PriceMin  *float64
	PriceMax  *float64
	YearMin   *int
	YearMax   *int
	GenresCSV string
}

// NewFilter 查询参数 → 后端无关谓词
// GenresCSV中任何成员不在词表内时整个请求失败(InvalidGenre)。
func NewFilter(p FilterParams) (Filter, error) {
	genres, err := ParseGenresCSV(p.GenresCSV)
	if err != nil {
		return Filter{}, err
	}
	return Filter{
		Author:   p.Author,
		PriceMin: p.PriceMin,
		PriceMax: p.PriceMax,
		YearMin:  p.YearMin,
		YearMax:  p.YearMax,
		Genres:   genres,
	}, nil
}
