package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anzhiyu-c/boganto-blog/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t       *testing.T
	app     *App
	cookies []*http.Cookie
}

func newTestApp(t *testing.T, overrides map[string]interface{}) *testClient {
	t.Helper()
	t.Chdir(t.TempDir())

	values := map[string]interface{}{
		config.KeyAdminUsername:      "admin",
		config.KeyAdminPassword:      "s3cret",
		config.KeyAuthLoginFailDelay: "0s",
		config.KeyDBName:             "app_test.db",
	}
	for k, v := range overrides {
		values[k] = v
	}

	app, cleanup, err := NewAppFromConfig(config.NewConfigFromMap(values))
	require.NoError(t, err)
	t.Cleanup(func() {
		app.Stop()
		cleanup()
	})
	return &testClient{t: t, app: app}
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	tc.app.Engine().ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		tc.cookies = set
	}
	return w
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	return tc.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tc *testClient) login(password string) *httptest.ResponseRecorder {
	body := `{"username":"admin","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req)
}

func (tc *testClient) createBlog(fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(tc.t, mw.WriteField(k, v))
	}
	require.NoError(tc.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/blogs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return tc.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestApp_PublicEndpoints(t *testing.T) {
	tc := newTestApp(t, nil)

	w := tc.get("/api/categories")
	require.Equal(t, http.StatusOK, w.Code)
	categories := decode(t, w)["categories"].([]interface{})
	assert.NotEmpty(t, categories)

	w = tc.get("/api/banner")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["banners"])

	w = tc.get("/api/blogs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["blogs"])

	w = tc.get("/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found: /api/nope", decode(t, w)["error"])

	w = tc.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "boganto_http_requests_total")
}

func TestApp_AdminFlow(t *testing.T) {
	tc := newTestApp(t, nil)

	w := tc.createBlog(map[string]string{"title": "Hello World", "content": "<p>x</p>", "category_id": "1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = tc.login("wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["message"])

	w = tc.login("s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", decode(t, w)["message"])
	require.NotEmpty(t, tc.cookies)

	w = tc.get("/api/auth/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["logged_in"])

	w = tc.createBlog(map[string]string{
		"title":         "Hello World",
		"content":       "<p>A <b>great</b> read</p>",
		"category_id":   "1",
		"tags":          "fiction, classics",
		"status":        "published",
		"related_books": `[{"title":"Dune","purchase_link":"https://example.com/dune"},{"title":""}]`,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "hello-world", created["slug"])
	assert.Len(t, created["warnings"], 1)
	blogID := int64(created["blog_id"].(float64))
	assert.Positive(t, blogID)

	w = tc.createBlog(map[string]string{"title": "", "content": "x", "category_id": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title, content, and category are required", decode(t, w)["error"])

	w = tc.get("/api/blogs?category=fiction&limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	blogs := decode(t, w)["blogs"].([]interface{})
	require.Len(t, blogs, 1)
	assert.Equal(t, "Hello World", blogs[0].(map[string]interface{})["title"])

	w = tc.get("/api/getBlogs.php?slug=hello-world")
	require.Equal(t, http.StatusOK, w.Code)
	blog := decode(t, w)["blog"].(map[string]interface{})
	assert.Len(t, blog["related_books"], 1)

	w = tc.do(httptest.NewRequest(http.MethodDelete, "/api/admin/blogs?id=999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Blog not found", decode(t, w)["error"])

	w = tc.do(httptest.NewRequest(http.MethodDelete, "/api/admin/blogs", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = tc.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/addBlog.php?id=%d", blogID), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = tc.get(fmt.Sprintf("/api/blogs/%d", blogID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = tc.do(httptest.NewRequest(http.MethodDelete, "/api/auth/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout successful", decode(t, w)["message"])

	w = tc.get("/api/auth/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["logged_in"])
}

func TestApp_RateLimit(t *testing.T) {
	tc := newTestApp(t, map[string]interface{}{config.KeyServerRateLimit: 10})

	assert.Equal(t, http.StatusOK, tc.get("/api/banner").Code)
	assert.Equal(t, http.StatusTooManyRequests, tc.get("/api/banner").Code)
	// 限流只作用于 /api 分组
	assert.Equal(t, http.StatusOK, tc.get("/metrics").Code)
}

func TestRateLimitBurst(t *testing.T) {
	assert.Equal(t, 0, rateLimitBurst(0))
	assert.Equal(t, 1, rateLimitBurst(5))
	assert.Equal(t, 6, rateLimitBurst(60))
}
