package middlewares

import (
	"net/http"
	"strings"

	"github.com/MdeMedina/saboresdelhogar/utils"
	"github.com/gin-gonic/gin"
)

const (
	DeviceHeader = "X-Device-ID"
	deviceQuery  = "device"
	maxDeviceKey = 128
)

// DeviceKey requires a device key from the X-Device-ID header, or the
// device query parameter for websocket clients that cannot set headers. A
// session resolved earlier in the chain overrides it with its own device.
func DeviceKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s := utils.CurrentSession(c); s != nil {
			utils.SetDeviceKey(c, s.OwnerKey)
			c.Next()
			return
		}
		key := strings.TrimSpace(c.GetHeader(DeviceHeader))
		if key == "" {
			key = strings.TrimSpace(c.Query(deviceQuery))
		}
		if key == "" || len(key) > maxDeviceKey {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing or invalid " + DeviceHeader})
			return
		}
		utils.SetDeviceKey(c, key)
		c.Next()
	}
}
