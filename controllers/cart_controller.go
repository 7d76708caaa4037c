package controllers

import (
	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/pkg/resp"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/MdeMedina/saboresdelhogar/utils"
	"github.com/gin-gonic/gin"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

func (h *CartController) reply(c *gin.Context, cart *entity.Cart, err error) {
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, h.Svc.Summarize(cart))
}

// GET /cart
func (h *CartController) Get(c *gin.Context) {
	cart, err := h.Svc.Get(c.Request.Context(), utils.DeviceKey(c))
	h.reply(c, cart, err)
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	var body struct {
		ItemID string `json:"itemId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cart, err := h.Svc.AddItem(c.Request.Context(), utils.DeviceKey(c), body.ItemID)
	h.reply(c, cart, err)
}

// PATCH /cart/items/:itemId
func (h *CartController) UpdateQty(c *gin.Context) {
	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cart, err := h.Svc.UpdateQuantity(c.Request.Context(), utils.DeviceKey(c), c.Param("itemId"), *body.Quantity)
	h.reply(c, cart, err)
}

// DELETE /cart/items/:itemId
func (h *CartController) RemoveItem(c *gin.Context) {
	cart, err := h.Svc.RemoveItem(c.Request.Context(), utils.DeviceKey(c), c.Param("itemId"))
	h.reply(c, cart, err)
}

// DELETE /cart
func (h *CartController) Clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context(), utils.DeviceKey(c)); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, h.Svc.Summarize(entity.NewCart(utils.DeviceKey(c))))
}
