package resp

import (
	"errors"
	"net/http"

	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}

// FromError writes a service error with its code. Internal failures never
// leak their cause to the client.
func FromError(c *gin.Context, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": services.CodeInternal, "error": "internal error"})
		return
	}
	if se.Kind == services.KindInternal {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": se.Code, "error": se.Message})
		return
	}
	c.JSON(statusFor(se.Code), gin.H{"ok": false, "code": se.Code, "error": se.Message})
}

func statusFor(code string) int {
	switch code {
	case services.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case services.CodeItemNotFound:
		return http.StatusNotFound
	case services.CodeEmailExists:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
