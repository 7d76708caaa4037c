package controllers

import (
	"github.com/MdeMedina/saboresdelhogar/pkg/resp"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(s *services.OrderService) *OrderController { return &OrderController{Svc: s} }

// POST /orders
func (h *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	o, err := h.Svc.CreateOrder(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, o)
}

// GET /orders (newest first)
func (h *OrderController) History(c *gin.Context) {
	list, err := h.Svc.History(c.Request.Context(), callerFrom(c))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, list)
}

// GET /orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	o, ok, err := h.Svc.FindOrder(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	if !ok {
		resp.NotFound(c, "order not found")
		return
	}
	resp.OK(c, o)
}
