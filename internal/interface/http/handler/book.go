package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/benhanover/kaplat/internal/application/book"
	"github.com/benhanover/kaplat/internal/interface/http/dto"
	apperrors "github.com/benhanover/kaplat/pkg/errors"
	"github.com/benhanover/kaplat/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	getUseCase    *appbook.GetBookUseCase
	listUseCase   *appbook.ListBooksUseCase
	countUseCase  *appbook.CountBooksUseCase
	updateUseCase *appbook.UpdatePriceUseCase
	deleteUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	countUseCase *appbook.CountBooksUseCase,
	updateUseCase *appbook.UpdatePriceUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
		countUseCase:  countUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Health 健康检查
// @Summary      健康检查
// @Tags         图书
// @Produce      plain
// @Success      200 {string} string "OK"
// @Router       /books/health [get]
func (h *BookHandler) Health(c *gin.Context) {
	c.String(200, "OK")
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  在所有已配置的存储后端创建同一本图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Param        persistenceMethod query string false "后端选择(MONGO/POSTGRES/MEMORY)"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "缺少字段或genre非法"
// @Failure      409 {object} response.Response "标题重复、年份越界或价格为负"
// @Failure      500 {object} response.Response "存储后端错误"
// @Router       /book [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "Error: invalid request body")
		return
	}

	// 2. 调用应用层用例(字段校验由领域层负责)
	rawID, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:    req.Title,
		Author:   req.Author,
		Year:     req.Year,
		Price:    req.Price,
		Genres:   req.Genres,
		Selector: c.Query("persistenceMethod"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, rawID)
}

// GetBook 按ID查询图书
// @Summary      查询单本图书
// @Tags         图书
// @Produce      json
// @Param        id query int true "图书rawid"
// @Param        persistenceMethod query string false "后端选择(MONGO/POSTGRES/MEMORY)"
// @Success      200 {object} response.Response{result=dto.BookResponse}
// @Failure      400 {object} response.Response "id非法"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /book [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id, c.Query("persistenceMethod"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateBookPrice 更新图书价格
// @Summary      更新价格
// @Description  更新所有已配置后端中该图书的价格,返回更新前的价格
// @Tags         图书
// @Produce      json
// @Param        id query int true "图书rawid"
// @Param        price query number true "新价格"
// @Param        persistenceMethod query string false "后端选择(MONGO/POSTGRES/MEMORY)"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "价格为负"
// @Router       /book [put]
func (h *BookHandler) UpdateBookPrice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "Error: price query parameter is missing or not a number")
		return
	}

	previous, err := h.updateUseCase.Execute(c.Request.Context(), id, price, c.Query("persistenceMethod"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, previous)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  从所有已配置的存储后端删除该图书
// @Tags         图书
// @Produce      json
// @Param        id query int true "图书rawid"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      500 {object} response.Response "部分后端删除失败"
// @Router       /book [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.deleteUseCase.Execute(c.Request.Context(), id, c.Query("persistenceMethod"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, deleted)
}

// ListBooks 按条件查询图书列表
// @Summary      查询图书列表
// @Description  条件全部可选且合取生效,结果按标题升序(忽略大小写)
// @Tags         图书
// @Produce      json
// @Param        author query string false "作者(精确匹配,忽略大小写)"
// @Param        price-bigger-than query number false "价格下界(含)"
// @Param        price-less-than query number false "价格上界(含)"
// @Param        year-bigger-than query int false "年份下界(含)"
// @Param        year-less-than query int false "年份上界(含)"
// @Param        genres query string false "genre列表(逗号分隔,match-any)"
// @Param        persistenceMethod query string false "后端选择(MONGO/POSTGRES/MEMORY)"
// @Success      200 {object} response.Response{result=[]dto.BookResponse}
// @Failure      400 {object} response.Response "genre非法或参数无法解析"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// CountBooks 按条件统计图书数量
// @Summary      统计图书数量
// @Tags         图书
// @Produce      json
// @Param        author query string false "作者(精确匹配,忽略大小写)"
// @Param        price-bigger-than query number false "价格下界(含)"
// @Param        price-less-than query number false "价格上界(含)"
// @Param        year-bigger-than query int false "年份下界(含)"
// @Param        year-less-than query int false "年份上界(含)"
// @Param        genres query string false "genre列表(逗号分隔,match-any)"
// @Param        persistenceMethod query string false "后端选择(MONGO/POSTGRES/MEMORY)"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "genre非法或参数无法解析"
// @Router       /books/total [get]
func (h *BookHandler) CountBooks(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}

	total, err := h.countUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, total)
}

// =========================================
// 辅助函数:查询参数解析
// =========================================

// parseID 解析id查询参数
// 缺失或非整数直接写出400响应,返回ok=false。
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "Error: id query parameter is missing or not an integer")
		return 0, false
	}
	return id, true
}

// bindFilter 绑定列表/计数的过滤参数
// 数值参数解析失败直接写出400响应,返回ok=false。
func bindFilter(c *gin.Context) (appbook.ListBooksRequest, bool) {
	var query dto.BookFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "Error: invalid filter parameters")
		return appbook.ListBooksRequest{}, false
	}

	return appbook.ListBooksRequest{
		Author:    query.Author,
		PriceMin:  query.PriceMin,
		PriceMax:  query.PriceMax,
		YearMin:   query.YearMin,
		YearMax:   query.YearMax,
		GenresCSV: query.Genres,
		Selector:  query.Persist,
	}, true
}
