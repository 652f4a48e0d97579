package appErrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleError writes an AppError (or a generic 500 for anything else)
// to the gin response.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if As(err, &appErr) {
		c.JSON(appErr.HTTPCode, gin.H{"error": appErr})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": InternalError(err),
	})
}
