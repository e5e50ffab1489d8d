package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
)

// LoggerConfig controls what the request logger captures
type LoggerConfig struct {
	LogRequestBody  bool
	LogResponseBody bool  // error responses are always logged
	MaxBodySize     int64 // bytes
	SkipPaths       []string
	Logger          *logger.Logger
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		LogRequestBody:  true,
		LogResponseBody: false,
		MaxBodySize:     2048,
		SkipPaths:       []string{"/health", "/swagger/*any"},
	}
}

func Logger() gin.HandlerFunc {
	return LoggerWithConfig(DefaultLoggerConfig())
}

// LoggerWithConfig writes one line per request and a second line with the
// request and response bodies when they are worth keeping.
func LoggerWithConfig(config LoggerConfig) gin.HandlerFunc {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		contentType := c.GetHeader("Content-Type")

		var requestBody string
		if config.LogRequestBody && c.Request.Body != nil && c.Request.ContentLength > 0 {
			switch {
			case strings.HasPrefix(contentType, "multipart/"):
				requestBody = "[multipart]"
			case c.Request.ContentLength > config.MaxBodySize:
				requestBody = "[too large]"
			default:
				bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, config.MaxBodySize))
				if err == nil {
					c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
					requestBody = sanitizeBody(string(bodyBytes), contentType)
				}
			}
		}

		writer := &limitedResponseWriter{ResponseWriter: c.Writer, maxSize: config.MaxBodySize}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		line := fmt.Sprintf("%s %s %d %v %s ip=%s",
			c.Request.Method, c.Request.URL.Path, status, time.Since(start).Round(time.Microsecond),
			formatSize(writer.size), c.ClientIP())
		if userID := c.GetString("userID"); userID != "" {
			line += " user=" + userID
			if role := c.GetString("role"); role != "" {
				line += " role=" + role
			}
		}

		switch {
		case status >= 500:
			log.Error("%s", line)
		case status >= 400:
			log.Warn("%s", line)
		default:
			log.Info("%s", line)
		}

		var details []string
		if requestBody != "" {
			details = append(details, "request="+requestBody)
		}
		if writer.body.Len() > 0 && (config.LogResponseBody || status >= 400) {
			details = append(details, "response="+truncateString(writer.body.String(), 500))
		}
		if len(details) > 0 {
			log.Debug("%s %s %s", c.Request.Method, c.Request.URL.Path, strings.Join(details, " "))
		}
	}
}

// limitedResponseWriter keeps at most maxSize bytes of the response for logging
type limitedResponseWriter struct {
	gin.ResponseWriter
	body    bytes.Buffer
	size    int64
	maxSize int64
}

func (w *limitedResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)

	if w.size+int64(n) <= w.maxSize {
		w.body.Write(b[:n])
	}
	w.size += int64(n)

	return n, err
}

func formatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	} else if bytes < 1024*1024 {
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
}

func sanitizeBody(body, contentType string) string {
	if body == "" {
		return ""
	}

	if strings.Contains(contentType, "application/json") {
		var jsonData interface{}
		if json.Unmarshal([]byte(body), &jsonData) == nil {
			if formatted, err := json.Marshal(hideSensitiveFields(jsonData)); err == nil {
				return truncateString(string(formatted), 500)
			}
		}
	}

	return truncateString(body, 200)
}

func hideSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitiveField(strings.ToLower(key)) {
				result[key] = "********"
			} else {
				result[key] = hideSensitiveFields(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = hideSensitiveFields(item)
		}
		return result
	default:
		return v
	}
}

// Reporter contact details are masked alongside credentials.
func isSensitiveField(field string) bool {
	sensitive := []string{"password", "token", "secret", "key", "auth", "credential", "phone", "email"}
	for _, s := range sensitive {
		if strings.Contains(field, s) {
			return true
		}
	}
	return false
}

// truncateString cuts s to at most maxLen bytes without splitting a character.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
