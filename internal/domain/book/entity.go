package book

// 年份合法范围
const (
	MinYear = 1940
	MaxYear = 2100
)

// Book 图书实体
// 设计说明:
// 1. RawID是对外可见的整数标识,由存储网关在创建时按"当前总数+1"分配,
//    客户端不能指定;各后端独立计数,不保证跨后端全局唯一
// 2. Title在单个后端内大小写不敏感唯一
// 3. Price用float64承载十进制价格,存储层映射为decimal/浮点列
// 4. 生命周期:创建后唯一允许的变更是价格更新;删除立即生效,无软删除
type Book struct {
	RawID  int     // 对外ID,创建时分配
	Title  string  // 书名,必填,大小写不敏感唯一
	Author string  // 作者,必填
	Year   int     // 出版年份,必填,1940 <= year <= 2100
	Price  float64 // 价格,必填,>= 0
	Genres []Genre // 类型标签,词表子集
}

// CreateData 创建图书的输入
// 指针字段用于区分"缺少字段"和"零值":
// 原始请求体里字段缺失时指针为nil,零值(如price=0)是合法存在的值。
type CreateData struct {
	Title  *string
	Author *string
	Year   *int
	Price  *float64
	Genres []string
}

// Validate 校验输入的存在性与genre词表
// 校验层:同步、无副作用,在任何持久化访问之前执行。
// 年份/价格的数值范围属于领域规则校验,由Service负责(错误码不同)。
func (d CreateData) Validate() error {
	if d.Title == nil || *d.Title == "" ||
		d.Author == nil || *d.Author == "" ||
		d.Year == nil || d.Price == nil || d.Genres == nil {
		return errMissingField()
	}
	return ValidateGenres(d.Genres)
}

// NewBook 从已校验的输入构造图书实体(RawID由存储网关分配)
func (d CreateData) NewBook() *Book {
	return &Book{
		Title:  *d.Title,
		Author: *d.Author,
		Year:   *d.Year,
		Price:  *d.Price,
		Genres: ParseGenres(d.Genres),
	}
}
