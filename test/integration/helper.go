package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8574"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应信封
type Response struct {
	Result       json.RawMessage `json:"result"`
	ErrorMessage *string         `json:"errorMessage"`
}

// BookData 图书响应数据
type BookData struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Year   int      `json:"year"`
	Price  float64  `json:"price"`
	Genres []string `json:"genres"`
}

// RequireServer 服务不可用时跳过测试
// 集成测试需要一个已经跑起来的服务实例(以及它背后的存储后端),
// CI里没有时直接Skip而不是失败。
func RequireServer(t *testing.T) {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(BaseURL + "/books/health")
	if err != nil {
		t.Skipf("服务未启动,跳过集成测试: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Skipf("健康检查失败(状态码%d),跳过集成测试", resp.StatusCode)
	}
}

// Do 发送请求并解析统一信封
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回HTTP状态码和信封,断言由调用方完成
func Do(t *testing.T, method, url string, body interface{}) (int, *Response) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(t, err, "JSON序列化失败")
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err, "创建HTTP请求失败")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(data, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(data))

	return resp.StatusCode, &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, body interface{}) (int, *Response) {
	return Do(t, http.MethodPost, url, body)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string) (int, *Response) {
	return Do(t, http.MethodGet, url, nil)
}

// PutJSON 发送PUT请求
func PutJSON(t *testing.T, url string) (int, *Response) {
	return Do(t, http.MethodPut, url, nil)
}

// DeleteJSON 发送DELETE请求
func DeleteJSON(t *testing.T, url string) (int, *Response) {
	return Do(t, http.MethodDelete, url, nil)
}

// GenerateTestTitle 生成唯一的测试书名
//
// 教学说明：
// 使用时间戳确保书名唯一性,避免测试重复运行时标题查重冲突
func GenerateTestTitle(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
