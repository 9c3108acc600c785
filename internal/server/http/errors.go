package http

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	msgUnauthorized = "Unauthorized"
	msgInternal     = "Something is wrong"
	msgUserNotFound = "User not found"
	msgTaskNotFound = "Task not found"
	msgBadBody      = "Invalid request body"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeError maps an error kind to a status code. Internal details are only
// logged.
func (s *HTTPServer) writeError(c *gin.Context, err error, notFound string) {
	switch common.KindOf(err) {
	case common.KindValidation:
		fields := common.ValidationFields(err)
		if len(fields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		out := make([]fieldError, 0, len(fields))
		for _, f := range fields {
			out = append(out, fieldError{Field: f.Field, Message: f.Message})
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": out})
	case common.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
	case common.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"message": notFound})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	}
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msgBadBody})
}
