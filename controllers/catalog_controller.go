package controllers

import (
	"strconv"
	"strings"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/pkg/resp"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/gin-gonic/gin"
)

type CatalogController struct{ Svc *services.CatalogService }

func NewCatalogController(s *services.CatalogService) *CatalogController {
	return &CatalogController{Svc: s}
}

// GET /menu?category=&q=&vegetarian=&available=
func (h *CatalogController) List(c *gin.Context) {
	var f services.MenuFilter
	if v := strings.TrimSpace(c.Query("category")); v != "" {
		cat := entity.Category(strings.ToUpper(v))
		if !cat.Valid() {
			resp.BadRequest(c, "unknown category")
			return
		}
		f.Category = cat
	}
	f.Query = c.Query("q")
	if _, ok := c.GetQuery("q"); ok && strings.TrimSpace(f.Query) == "" {
		// an explicit blank search matches nothing
		resp.OK(c, []entity.MenuItem{})
		return
	}
	f.VegetarianOnly, _ = strconv.ParseBool(c.Query("vegetarian"))
	f.AvailableOnly, _ = strconv.ParseBool(c.Query("available"))
	resp.OK(c, h.Svc.Filter(f))
}

// GET /menu/categories
func (h *CatalogController) Categories(c *gin.Context) {
	resp.OK(c, h.Svc.Grouped())
}

// GET /menu/:id
func (h *CatalogController) Detail(c *gin.Context) {
	it, ok := h.Svc.FindByID(c.Param("id"))
	if !ok {
		resp.NotFound(c, "item not found")
		return
	}
	resp.OK(c, it)
}
