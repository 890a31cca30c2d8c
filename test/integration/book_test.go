package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：图书模块集成测试
//
// 测试场景覆盖：
// 1. 创建图书与标题查重(大小写不敏感)
// 2. 按ID查询、价格更新返回旧价格
// 3. 列表过滤与标题排序
// 4. 参数校验(缺少字段、非法genre、年份/价格越界)
//
// 前置条件:服务已在8574端口启动,RequireServer不可用时跳过。

// TestBookCreate 测试图书创建
func TestBookCreate(t *testing.T) {
	RequireServer(t)

	t.Run("正常创建图书", func(t *testing.T) {
		title := GenerateTestTitle("Dune")
		status, resp := PostJSON(t, BaseURL+"/book", map[string]interface{}{
			"title":  title,
			"author": "Frank Herbert",
			"year":   1965,
			"price":  10,
			"genres": []string{"SCI_FI"},
		})

		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp.ErrorMessage)

		var rawID int
		require.NoError(t, json.Unmarshal(resp.Result, &rawID))
		assert.Greater(t, rawID, 0, "rawid应该是正整数")

		t.Logf("✓ 创建成功,rawid: %d", rawID)
	})

	t.Run("标题重复应409", func(t *testing.T) {
		title := GenerateTestTitle("duplicate")
		status, _ := PostJSON(t, BaseURL+"/book", map[string]interface{}{
			"title":  title,
			"author": "a",
			"year":   2000,
			"price":  5,
			"genres": []string{"NOVEL"},
		})
		require.Equal(t, http.StatusOK, status)

		// 大小写不同也算重复
		status, resp := PostJSON(t, BaseURL+"/book", map[string]interface{}{
			"title":  "DUPLICATE" + title[len("duplicate"):],
			"author": "b",
			"year":   2001,
			"price":  6,
			"genres": []string{"NOVEL"},
		})
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, resp.ErrorMessage)
		assert.Contains(t, *resp.ErrorMessage, "already exists")
	})

	t.Run("年份越界应409", func(t *testing.T) {
		status, resp := PostJSON(t, BaseURL+"/book", map[string]interface{}{
			"title":  GenerateTestTitle("old"),
			"author": "a",
			"year":   1890,
			"price":  5,
			"genres": []string{"HISTORY"},
		})
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, resp.ErrorMessage)
		assert.Contains(t, *resp.ErrorMessage, "1890")
	})

	t.Run("负价格应409", func(t *testing.T) {
		status, _ := PostJSON(t, BaseURL+"/book", map[string]interface{}{
			"title":  GenerateTestTitle("negative"),
			"author": "a",
			"year":   2000,
			"price":  -1,
			"genres": []string{"NOVEL"},
		})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("非法genre应400", func(t *testing.T) {
		status, _ := PostJSON(t, BaseURL+"/book", map[string]interface{}{
			"title":  GenerateTestTitle("badgenre"),
			"author": "a",
			"year":   2000,
			"price":  5,
			"genres": []string{"WESTERN"},
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("缺少字段应400", func(t *testing.T) {
		status, _ := PostJSON(t, BaseURL+"/book", map[string]interface{}{
			"title": GenerateTestTitle("partial"),
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

// TestBookLifecycle 测试查询、价格更新、删除的完整流程
func TestBookLifecycle(t *testing.T) {
	RequireServer(t)

	// 准备一本书
	title := GenerateTestTitle("lifecycle")
	status, resp := PostJSON(t, BaseURL+"/book", map[string]interface{}{
		"title":  title,
		"author": "Lifecycle Author",
		"year":   1999,
		"price":  42.5,
		"genres": []string{"PROFESSIONAL", "HISTORY"},
	})
	require.Equal(t, http.StatusOK, status)

	var rawID int
	require.NoError(t, json.Unmarshal(resp.Result, &rawID))

	t.Run("按ID查询", func(t *testing.T) {
		status, resp := GetJSON(t, fmt.Sprintf("%s/book?id=%d", BaseURL, rawID))
		require.Equal(t, http.StatusOK, status)

		var book BookData
		require.NoError(t, json.Unmarshal(resp.Result, &book))
		assert.Equal(t, rawID, book.ID)
		assert.Equal(t, title, book.Title)
		assert.Equal(t, 42.5, book.Price)
	})

	t.Run("价格更新返回旧价格", func(t *testing.T) {
		status, resp := PutJSON(t, fmt.Sprintf("%s/book?id=%d&price=50", BaseURL, rawID))
		require.Equal(t, http.StatusOK, status)

		var previous float64
		require.NoError(t, json.Unmarshal(resp.Result, &previous))
		assert.Equal(t, 42.5, previous)

		// 查询应反映新价格
		status, resp = GetJSON(t, fmt.Sprintf("%s/book?id=%d", BaseURL, rawID))
		require.Equal(t, http.StatusOK, status)
		var book BookData
		require.NoError(t, json.Unmarshal(resp.Result, &book))
		assert.Equal(t, float64(50), book.Price)
	})

	t.Run("负价格更新应409且不生效", func(t *testing.T) {
		status, _ := PutJSON(t, fmt.Sprintf("%s/book?id=%d&price=-5", BaseURL, rawID))
		assert.Equal(t, http.StatusConflict, status)

		status, resp := GetJSON(t, fmt.Sprintf("%s/book?id=%d", BaseURL, rawID))
		require.Equal(t, http.StatusOK, status)
		var book BookData
		require.NoError(t, json.Unmarshal(resp.Result, &book))
		assert.Equal(t, float64(50), book.Price, "失败的更新不应该改价格")
	})

	t.Run("删除后查询404", func(t *testing.T) {
		status, resp := DeleteJSON(t, fmt.Sprintf("%s/book?id=%d", BaseURL, rawID))
		require.Equal(t, http.StatusOK, status)

		var deleted int
		require.NoError(t, json.Unmarshal(resp.Result, &deleted))
		assert.Equal(t, rawID, deleted)

		status, _ = GetJSON(t, fmt.Sprintf("%s/book?id=%d", BaseURL, rawID))
		assert.Equal(t, http.StatusNotFound, status)
	})
}

// TestBookQueries 测试列表与计数接口
func TestBookQueries(t *testing.T) {
	RequireServer(t)

	author := GenerateTestTitle("QueryAuthor")
	titles := []string{
		GenerateTestTitle("zebra"),
		GenerateTestTitle("alpha"),
	}
	for i, title := range titles {
		status, _ := PostJSON(t, BaseURL+"/book", map[string]interface{}{
			"title":  title,
			"author": author,
			"year":   1980 + i*20,
			"price":  float64(10 * (i + 1)),
			"genres": []string{"MANGA"},
		})
		require.Equal(t, http.StatusOK, status)
	}

	t.Run("按作者过滤并按标题排序", func(t *testing.T) {
		status, resp := GetJSON(t, BaseURL+"/books?author="+author)
		require.Equal(t, http.StatusOK, status)

		var books []BookData
		require.NoError(t, json.Unmarshal(resp.Result, &books))
		require.Len(t, books, 2)
		assert.Equal(t, titles[1], books[0].Title, "alpha应该排在zebra前面")
		assert.Equal(t, titles[0], books[1].Title)
	})

	t.Run("数值范围过滤", func(t *testing.T) {
		url := fmt.Sprintf("%s/books/total?author=%s&price-bigger-than=15", BaseURL, author)
		status, resp := GetJSON(t, url)
		require.Equal(t, http.StatusOK, status)

		var total int64
		require.NoError(t, json.Unmarshal(resp.Result, &total))
		assert.Equal(t, int64(1), total)
	})

	t.Run("非法genre过滤应400", func(t *testing.T) {
		status, _ := GetJSON(t, BaseURL+"/books?genres=MANGA,INVALID")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}
