package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimit caps the request body. Oversized bodies fail inside
// the handler's read with http.MaxBytesError, which gin reports as a
// 400; the limit mainly protects the JSON binders and the upload
// endpoint from unbounded reads.
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
