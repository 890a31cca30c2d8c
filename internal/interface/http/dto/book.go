package dto

// CreateBookRequest HTTP创建图书请求
// 设计说明:
// 1. 不使用binding:"required":字段缺失要返回统一的
//    "Missing required fields"文本,不能用gin默认的校验错误
// 2. 指针字段区分"缺失"和"零值",price=0是合法输入
type CreateBookRequest struct {
	Title  *string  `json:"title" example:"Dune"`
	Author *string  `json:"author" example:"Frank Herbert"`
	Year   *int     `json:"year" example:"1965"`
	Price  *float64 `json:"price" example:"10"`
	Genres []string `json:"genres" example:"SCI_FI,NOVEL"`
}

// BookFilterQuery HTTP列表/计数查询参数
// 参数名沿用对外接口的连字符风格,通过form tag映射。
type BookFilterQuery struct {
	Author    string   `form:"author" example:"Frank Herbert"`
	PriceMin  *float64 `form:"price-bigger-than" example:"5"`
	PriceMax  *float64 `form:"price-less-than" example:"20"`
	YearMin   *int     `form:"year-bigger-than" example:"1940"`
	YearMax   *int     `form:"year-less-than" example:"2000"`
	Genres    string   `form:"genres" example:"SCI_FI,MANGA"`
	Persist   string   `form:"persistenceMethod" example:"POSTGRES"`
}

// BookResponse HTTP图书响应
// 用于单本查询和列表查询,id是对外的rawid。
type BookResponse struct {
	ID     int      `json:"id" example:"1"`
	Title  string   `json:"title" example:"Dune"`
	Author string   `json:"author" example:"Frank Herbert"`
	Year   int      `json:"year" example:"1965"`
	Price  float64  `json:"price" example:"10"`
	Genres []string `json:"genres" example:"SCI_FI,NOVEL"`
}
