package handlers

import (
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	defaultSort     = "name"
	defaultOrder    = "asc"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

type detailQuery struct {
	Keyword string `query:"keyword" validate:"max=100"`
	Page    int    `query:"page" validate:"min=0"`
	Size    int    `query:"size" validate:"min=1,max=100"`
	Sort    string `query:"sort"`
	Order   string `query:"order"`
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, "Categories retrieved", cats)
}

func (h *CategoryHandler) Detail(c *fiber.Ctx) error {
	q, err := parseDetailQuery(c)
	if err != nil {
		return err
	}
	d, err := h.Catalog.GetCategoryDetail(c.UserContext(), c.Params("code"), services.CategoryQuery{
		Keyword: q.Keyword,
		Page:    q.Page,
		Size:    q.Size,
		Sort:    q.Sort,
		Order:   q.Order,
	})
	if err != nil {
		return err
	}
	return success(c, "Category detail retrieved", d)
}

func (h *CategoryHandler) Recommendations(c *fiber.Ctx) error {
	r, err := h.Catalog.GetRecommendations(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return success(c, "Recommendations retrieved (no recommendations available at this time)", r)
}

func parseDetailQuery(c *fiber.Ctx) (detailQuery, error) {
	q := detailQuery{
		Keyword: c.Query("keyword"),
		Sort:    c.Query("sort", defaultSort),
		Order:   c.Query("order", defaultOrder),
	}
	var err error
	if q.Page, err = validate.Int("page", c.Query("page"), 0); err != nil {
		return q, err
	}
	if q.Size, err = validate.Int("size", c.Query("size"), defaultPageSize); err != nil {
		return q, err
	}
	return q, validate.Struct(q)
}
