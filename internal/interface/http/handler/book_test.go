package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/benhanover/kaplat/internal/application/book"
	"github.com/benhanover/kaplat/internal/domain/book"
	"github.com/benhanover/kaplat/internal/infrastructure/persistence/memory"
)

// envelope 测试用响应信封
type envelope struct {
	Result       json.RawMessage `json:"result"`
	ErrorMessage *string         `json:"errorMessage"`
}

// newTestRouter 两个内存后端(MEMORY主)组成的完整HTTP栈
// 不初始化指标,记录函数都是空操作。
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := book.NewService([]book.ConfiguredBackend{
		{Name: book.BackendMemory, Repo: memory.NewBookRepository()},
		{Name: book.BackendPostgres, Repo: memory.NewBookRepository()},
	}, book.BackendMemory)

	h := NewBookHandler(
		appbook.NewCreateBookUseCase(svc),
		appbook.NewGetBookUseCase(svc),
		appbook.NewListBooksUseCase(svc),
		appbook.NewCountBooksUseCase(svc),
		appbook.NewUpdatePriceUseCase(svc),
		appbook.NewDeleteBookUseCase(svc),
	)

	r := gin.New()
	r.GET("/books/health", h.Health)
	r.POST("/book", h.CreateBook)
	r.GET("/book", h.GetBook)
	r.PUT("/book", h.UpdateBookPrice)
	r.DELETE("/book", h.DeleteBook)
	r.GET("/books", h.ListBooks)
	r.GET("/books/total", h.CountBooks)
	return r
}

// do 发送请求并解析信封
func do(t *testing.T, r *gin.Engine, method, target string, body interface{}) (int, *envelope) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "响应不是合法信封: %s", w.Body.String())
	return w.Code, &env
}

// createPayload 字段齐全的创建请求体
func createPayload(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":  title,
		"author": "Frank Herbert",
		"year":   1965,
		"price":  10,
		"genres": []string{"SCI_FI"},
	}
}

// TestHealth 健康检查返回纯文本OK
func TestHealth(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/books/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

// TestCreateBook 测试创建接口
func TestCreateBook(t *testing.T) {
	t.Run("成功创建返回rawid", func(t *testing.T) {
		r := newTestRouter()
		status, env := do(t, r, http.MethodPost, "/book", createPayload("Dune"))

		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, env.ErrorMessage)

		var id int
		require.NoError(t, json.Unmarshal(env.Result, &id))
		assert.Equal(t, 1, id)
	})

	t.Run("重复标题大小写不敏感409", func(t *testing.T) {
		r := newTestRouter()
		status, _ := do(t, r, http.MethodPost, "/book", createPayload("Dune"))
		require.Equal(t, http.StatusOK, status)

		status, env := do(t, r, http.MethodPost, "/book", createPayload("dUNE"))
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.ErrorMessage)
		assert.Equal(t, "Error: Book with the title [dUNE] already exists in the system", *env.ErrorMessage)
	})

	t.Run("年份越界409", func(t *testing.T) {
		r := newTestRouter()
		payload := createPayload("Ancient")
		payload["year"] = 1939

		status, env := do(t, r, http.MethodPost, "/book", payload)
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.ErrorMessage)
		assert.Equal(t, "Error: Can't create new Book that its year [1939] is not in the accepted range [1940 -> 2100]", *env.ErrorMessage)
	})

	t.Run("负价格409", func(t *testing.T) {
		r := newTestRouter()
		payload := createPayload("Freebie")
		payload["price"] = -3

		status, env := do(t, r, http.MethodPost, "/book", payload)
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.ErrorMessage)
		assert.Equal(t, "Error: Can't create new Book with negative price", *env.ErrorMessage)
	})

	t.Run("缺少字段400", func(t *testing.T) {
		r := newTestRouter()
		status, env := do(t, r, http.MethodPost, "/book", map[string]interface{}{
			"title": "Partial",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.ErrorMessage)
		assert.Equal(t, "Missing required fields", *env.ErrorMessage)
	})

	t.Run("非法genre400", func(t *testing.T) {
		r := newTestRouter()
		payload := createPayload("Weird")
		payload["genres"] = []string{"WESTERN"}

		status, env := do(t, r, http.MethodPost, "/book", payload)
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.ErrorMessage)
		assert.Equal(t, "Error: Invalid genre(s) provided", *env.ErrorMessage)
	})

	t.Run("price为0合法", func(t *testing.T) {
		r := newTestRouter()
		payload := createPayload("Free Book")
		payload["price"] = 0

		status, _ := do(t, r, http.MethodPost, "/book", payload)
		assert.Equal(t, http.StatusOK, status)
	})
}

// TestGetBook 测试单本查询接口
func TestGetBook(t *testing.T) {
	r := newTestRouter()
	status, _ := do(t, r, http.MethodPost, "/book", createPayload("Dune"))
	require.Equal(t, http.StatusOK, status)

	t.Run("按ID返回图书", func(t *testing.T) {
		status, env := do(t, r, http.MethodGet, "/book?id=1", nil)
		require.Equal(t, http.StatusOK, status)

		var b struct {
			ID     int      `json:"id"`
			Title  string   `json:"title"`
			Author string   `json:"author"`
			Year   int      `json:"year"`
			Price  float64  `json:"price"`
			Genres []string `json:"genres"`
		}
		require.NoError(t, json.Unmarshal(env.Result, &b))
		assert.Equal(t, 1, b.ID)
		assert.Equal(t, "Dune", b.Title)
		assert.Equal(t, []string{"SCI_FI"}, b.Genres)
	})

	t.Run("不存在404", func(t *testing.T) {
		status, env := do(t, r, http.MethodGet, "/book?id=99", nil)
		assert.Equal(t, http.StatusNotFound, status)
		require.NotNil(t, env.ErrorMessage)
		assert.Equal(t, "Error: no such Book with id 99", *env.ErrorMessage)
		assert.Equal(t, "null", string(env.Result))
	})

	t.Run("id非整数400", func(t *testing.T) {
		status, _ := do(t, r, http.MethodGet, "/book?id=abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("id缺失400", func(t *testing.T) {
		status, _ := do(t, r, http.MethodGet, "/book", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

// TestUpdateBookPrice 测试价格更新接口
func TestUpdateBookPrice(t *testing.T) {
	r := newTestRouter()
	status, _ := do(t, r, http.MethodPost, "/book", createPayload("Dune"))
	require.Equal(t, http.StatusOK, status)

	t.Run("返回旧价格", func(t *testing.T) {
		status, env := do(t, r, http.MethodPut, "/book?id=1&price=25.5", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, env.ErrorMessage)

		var previous float64
		require.NoError(t, json.Unmarshal(env.Result, &previous))
		assert.Equal(t, float64(10), previous)

		// 后续查询反映新价格
		_, env = do(t, r, http.MethodGet, "/book?id=1", nil)
		var b struct {
			Price float64 `json:"price"`
		}
		require.NoError(t, json.Unmarshal(env.Result, &b))
		assert.Equal(t, 25.5, b.Price)
	})

	t.Run("负价格409且不生效", func(t *testing.T) {
		status, env := do(t, r, http.MethodPut, "/book?id=1&price=-5", nil)
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.ErrorMessage)
		assert.Equal(t, "Error: price update for book [1] must be a positive integer", *env.ErrorMessage)

		_, env = do(t, r, http.MethodGet, "/book?id=1", nil)
		var b struct {
			Price float64 `json:"price"`
		}
		require.NoError(t, json.Unmarshal(env.Result, &b))
		assert.Equal(t, 25.5, b.Price, "失败的更新不改价格")
	})

	t.Run("不存在404", func(t *testing.T) {
		status, _ := do(t, r, http.MethodPut, "/book?id=77&price=5", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("price非数值400", func(t *testing.T) {
		status, _ := do(t, r, http.MethodPut, "/book?id=1&price=abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

// TestDeleteBook 测试删除接口
func TestDeleteBook(t *testing.T) {
	r := newTestRouter()
	status, _ := do(t, r, http.MethodPost, "/book", createPayload("Dune"))
	require.Equal(t, http.StatusOK, status)

	t.Run("成功删除返回id", func(t *testing.T) {
		status, env := do(t, r, http.MethodDelete, "/book?id=1", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, env.ErrorMessage)

		var id int
		require.NoError(t, json.Unmarshal(env.Result, &id))
		assert.Equal(t, 1, id)

		status, _ = do(t, r, http.MethodGet, "/book?id=1", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("重复删除404", func(t *testing.T) {
		status, _ := do(t, r, http.MethodDelete, "/book?id=1", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

// TestListAndCountBooks 测试列表与计数接口
func TestListAndCountBooks(t *testing.T) {
	r := newTestRouter()

	books := []map[string]interface{}{
		{"title": "Zebra Tales", "author": "Alice", "year": 1950, "price": 30, "genres": []string{"NOVEL"}},
		{"title": "alpha manual", "author": "alice", "year": 1990, "price": 10, "genres": []string{"PROFESSIONAL"}},
		{"title": "Midway", "author": "Bob", "year": 2020, "price": 20, "genres": []string{"HISTORY", "NOVEL"}},
	}
	for _, b := range books {
		status, _ := do(t, r, http.MethodPost, "/book", b)
		require.Equal(t, http.StatusOK, status)
	}

	t.Run("全量列表按标题排序", func(t *testing.T) {
		status, env := do(t, r, http.MethodGet, "/books", nil)
		require.Equal(t, http.StatusOK, status)

		var list []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(env.Result, &list))
		require.Len(t, list, 3)
		assert.Equal(t, "alpha manual", list[0].Title)
		assert.Equal(t, "Midway", list[1].Title)
		assert.Equal(t, "Zebra Tales", list[2].Title)
	})

	t.Run("作者过滤忽略大小写", func(t *testing.T) {
		status, env := do(t, r, http.MethodGet, "/books?author=ALICE", nil)
		require.Equal(t, http.StatusOK, status)

		var list []json.RawMessage
		require.NoError(t, json.Unmarshal(env.Result, &list))
		assert.Len(t, list, 2)
	})

	t.Run("数值区间与genre过滤合取", func(t *testing.T) {
		status, env := do(t, r, http.MethodGet, "/books/total?price-bigger-than=15&genres=NOVEL", nil)
		require.Equal(t, http.StatusOK, status)

		var total int64
		require.NoError(t, json.Unmarshal(env.Result, &total))
		assert.Equal(t, int64(2), total)
	})

	t.Run("无匹配返回空数组", func(t *testing.T) {
		status, env := do(t, r, http.MethodGet, "/books?author=nobody", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "[]", string(env.Result))
	})

	t.Run("非法genre400", func(t *testing.T) {
		status, env := do(t, r, http.MethodGet, "/books?genres=NOVEL,BAD", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.ErrorMessage)
		assert.Equal(t, "Error: Invalid genre(s) provided", *env.ErrorMessage)

		status, _ = do(t, r, http.MethodGet, "/books/total?genres=BAD", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("数值参数解析失败400", func(t *testing.T) {
		status, _ := do(t, r, http.MethodGet, "/books?price-bigger-than=abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}
