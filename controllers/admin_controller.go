package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/MdeMedina/saboresdelhogar/pkg/resp"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct{ Svc *services.AdminService }

func NewAdminController(s *services.AdminService) *AdminController { return &AdminController{Svc: s} }

// GET /admin/dashboard
func (h *AdminController) Dashboard(c *gin.Context) {
	d, err := h.Svc.Dashboard(c.Request.Context())
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, d)
}

// GET /admin/products
func (h *AdminController) Products(c *gin.Context) {
	resp.OK(c, h.Svc.Products())
}

// GET /admin/products/export
func (h *AdminController) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Svc.ExportProducts(&buf); err != nil {
		resp.FromError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "productos.xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
