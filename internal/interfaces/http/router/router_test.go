package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func reply(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter_Options(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.Prefix())
	assert.Empty(t, r.registrars)

	r2 := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r2.Prefix())
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()

	bookings := NewDomainGroup("bookings", "/bookings").
		GET("", reply("list")).
		GET("/stat", reply("stat")).
		GET("/:id", reply("one")).
		POST("", reply("create")).
		PUT("/:id", reply("update")).
		DELETE("/:id", reply("delete"))

	insurances := NewDomainGroup("insurances", "/insurances")
	insurances.Group("stat", "/stat").
		GET("", reply("totals")).
		GET("/bar", reply("bar")).
		GET("/pie", reply("pie"))

	reports := NewDomainGroup("reports", "/reports").GET("/periods", reply("periods"))

	r := NewRouter(engine).Register(bookings, insurances).Register(reports)
	require.Len(t, r.registrars, 3)
	r.Setup()

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/v1/bookings", "list"},
		{http.MethodGet, "/api/v1/bookings/stat", "stat"},
		{http.MethodGet, "/api/v1/bookings/7f1d", "one"},
		{http.MethodPost, "/api/v1/bookings", "create"},
		{http.MethodPut, "/api/v1/bookings/7f1d", "update"},
		{http.MethodDelete, "/api/v1/bookings/7f1d", "delete"},
		{http.MethodGet, "/api/v1/insurances/stat", "totals"},
		{http.MethodGet, "/api/v1/insurances/stat/bar", "bar"},
		{http.MethodGet, "/api/v1/insurances/stat/pie", "pie"},
		{http.MethodGet, "/api/v1/reports/periods", "periods"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/fines").Code)
}

func TestRouter_APIMiddlewareRunsFirst(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIMiddleware(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTeapot)
	}))
	r.Register(NewDomainGroup("fines", "/fines").GET("/stat", reply("stat")))
	r.Setup()

	assert.Equal(t, http.StatusTeapot, serve(engine, http.MethodGet, "/api/v1/fines/stat").Code)
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	g := NewDomainGroup("reports", "/reports").Use(mark("reports"))
	g.GET("", reply("list"))
	g.Group("admin", "/admin").Use(mark("admin")).GET("/jobs", reply("jobs"))

	assert.Equal(t, "reports", g.Name())
	assert.Equal(t, "/reports", g.Prefix())

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/reports/admin/jobs")
	assert.Equal(t, "jobs", w.Body.String())
	assert.Equal(t, []string{"reports", "admin"}, order)

	order = nil
	serve(engine, http.MethodGet, "/api/v1/reports")
	assert.Equal(t, []string{"reports"}, order)
}
