package controllers

import (
	"github.com/MdeMedina/saboresdelhogar/pkg/resp"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/MdeMedina/saboresdelhogar/utils"
	"github.com/gin-gonic/gin"
)

type FavoriteController struct{ Svc *services.FavoriteService }

func NewFavoriteController(s *services.FavoriteService) *FavoriteController {
	return &FavoriteController{Svc: s}
}

// GET /favorites
func (h *FavoriteController) List(c *gin.Context) {
	items, err := h.Svc.Favorites(c.Request.Context(), utils.DeviceKey(c))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, items)
}

// POST /favorites/:itemId
func (h *FavoriteController) Add(c *gin.Context) {
	if err := h.Svc.Add(c.Request.Context(), utils.DeviceKey(c), c.Param("itemId")); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"itemId": c.Param("itemId"), "favorite": true})
}

// DELETE /favorites/:itemId
func (h *FavoriteController) Remove(c *gin.Context) {
	if err := h.Svc.Remove(c.Request.Context(), utils.DeviceKey(c), c.Param("itemId")); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"itemId": c.Param("itemId"), "favorite": false})
}

// POST /favorites/:itemId/toggle
func (h *FavoriteController) Toggle(c *gin.Context) {
	fav, err := h.Svc.Toggle(c.Request.Context(), utils.DeviceKey(c), c.Param("itemId"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"itemId": c.Param("itemId"), "favorite": fav})
}
