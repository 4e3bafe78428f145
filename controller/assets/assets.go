package assets

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ordanov/datasvc/controller"
	"github.com/ordanov/datasvc/service"
)

func New(assets service.Assets) *Controller {
	return &Controller{assets: assets}
}

type Controller struct {
	assets service.Assets
}

// Get returns one asset by id.
// GET /assets/:id
func (ct *Controller) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.ErrBadRequest
	}

	asset, err := ct.assets.Get(c.Context(), id)
	if err != nil {
		return controller.RespondError(c, err)
	}
	if asset == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "asset not found"})
	}
	return c.JSON(asset)
}

// Mget returns a batch of assets, one slot per id, null for unknown.
// GET /assets?ids=a,b,c
func (ct *Controller) Mget(c *fiber.Ctx) error {
	raw := c.Query("ids")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "ids parameter is required"})
	}

	assets, err := ct.assets.Mget(c.Context(), strings.Split(raw, ","))
	if err != nil {
		return controller.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"data": assets})
}
