package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"racefinder/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// FromError renders a domain error. Storage and unknown errors never expose
// their cause to the client.
func FromError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	switch kind {
	case apperr.KindStorage, apperr.KindInternal:
		_ = c.Error(err)
		log.WithFields(log.Fields{
			"path":  c.FullPath(),
			"kind":  kind,
			"error": err.Error(),
		}).Error("request failed")
		message := "Internal server error"
		if status == http.StatusServiceUnavailable {
			message = "Storage temporarily unavailable"
		}
		Error(c, status, apperr.CodeOf(err), message)
	default:
		Error(c, status, apperr.CodeOf(err), err.Error())
	}
}
