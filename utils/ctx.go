package utils

import (
	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/gin-gonic/gin"
)

const (
	ctxDeviceKey = "deviceKey"
	ctxSession   = "session"
)

func SetDeviceKey(c *gin.Context, key string) { c.Set(ctxDeviceKey, key) }

func DeviceKey(c *gin.Context) string {
	return c.GetString(ctxDeviceKey)
}

func SetSession(c *gin.Context, s *entity.Session) { c.Set(ctxSession, s) }

// CurrentSession is nil for guests.
func CurrentSession(c *gin.Context) *entity.Session {
	if v, ok := c.Get(ctxSession); ok {
		if s, ok := v.(*entity.Session); ok {
			return s
		}
	}
	return nil
}

func CurrentUserID(c *gin.Context) string {
	if s := CurrentSession(c); s != nil {
		return s.UserID
	}
	return ""
}

func CurrentRole(c *gin.Context) entity.Role {
	if s := CurrentSession(c); s != nil {
		return s.User.Role
	}
	return ""
}
