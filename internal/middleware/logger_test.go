package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
)

func newLoggedRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := DefaultLoggerConfig()
	cfg.Logger = logger.NewWithWriter(logger.DEBUG, buf)

	r := gin.New()
	r.Use(LoggerWithConfig(cfg))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/reports", func(c *gin.Context) {
		c.Set("userID", "citizen-1")
		c.Set("role", "citizen")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid"})
	})
	return r
}

func TestLogger_SkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, buf.String())
}

func TestLogger_ClientErrorMasksContactDetails(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	body := `{"description":"injured dog","reporterPhone":"+15550100"}`
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "[WARN] POST /reports 422")
	assert.Contains(t, out, "user=citizen-1 role=citizen")
	assert.Contains(t, out, "injured dog")
	assert.NotContains(t, out, "+15550100")
	assert.Contains(t, out, `response={"message":"invalid"}`)
}

func TestTruncateString_KeepsCharactersWhole(t *testing.T) {
	s := strings.Repeat("ab", 2) + strings.Repeat("é", 10)

	got := truncateString(s, 7)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ababé...", got)
	assert.Equal(t, "abc", truncateString("abc", 6))
}

func TestHideSensitiveFields_Nested(t *testing.T) {
	got := hideSensitiveFields(map[string]interface{}{
		"items": []interface{}{map[string]interface{}{"apiKey": "x", "name": "rex"}},
	})

	items := got.(map[string]interface{})["items"].([]interface{})
	item := items[0].(map[string]interface{})
	assert.Equal(t, "********", item["apiKey"])
	assert.Equal(t, "rex", item["name"])
}
