package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

func loopbackOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isLoopbackRequest(c.Request) {
			c.AbortWithStatusJSON(http.StatusForbidden, okResponse{Error: HTTPErrorForbiddenText})
			return
		}
		if !isSafeLocalHost(c.Request.Host) {
			c.AbortWithStatusJSON(http.StatusForbidden, okResponse{Error: HTTPErrorForbiddenHostText})
			return
		}
		c.Next()
	}
}

func (s *Server) extensionPaired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.pairing.Verify(c.GetHeader(ExtensionHeader)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, okResponse{Error: HTTPErrorUnauthorizedText})
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("http request", "method", c.Request.Method, "path", c.Request.URL.Path,
				"status", c.Writer.Status(), "took", time.Since(start))
		}
	}
}
