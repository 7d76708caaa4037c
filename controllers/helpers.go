package controllers

import (
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/MdeMedina/saboresdelhogar/utils"
	"github.com/gin-gonic/gin"
)

func callerFrom(c *gin.Context) services.Caller {
	return services.Caller{DeviceKey: utils.DeviceKey(c), UserID: utils.CurrentUserID(c)}
}
