package pairs

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ordanov/datasvc/controller"
	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
	pairsvc "github.com/ordanov/datasvc/service/pairs"
)

func New(pairs service.Pairs, orderer *pairsvc.Orderer, defaultMatcher string) *Controller {
	return &Controller{
		pairs:          pairs,
		orderer:        orderer,
		defaultMatcher: defaultMatcher,
	}
}

type Controller struct {
	pairs          service.Pairs
	orderer        *pairsvc.Orderer
	defaultMatcher string
}

// Get returns market data for a single pair.
// GET /pairs/:amountAsset/:priceAsset
func (ct *Controller) Get(c *fiber.Ctx) error {
	amount, price := ct.orderer.Order(c.Params("amountAsset"), c.Params("priceAsset"))
	pair := model.IDPair{AmountAsset: amount, PriceAsset: price}
	matcher := c.Query("matcher", ct.defaultMatcher)

	info, err := ct.pairs.Get(c.Context(), pair, matcher)
	if err != nil {
		return controller.RespondError(c, err)
	}
	if info == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "pair not found"})
	}
	return c.JSON(info)
}

// MgetOrSearch returns data for an explicit pair list when ?pairs= is
// present, otherwise searches pairs by ?search_by_asset= filters.
// GET /pairs?pairs=A/B,C/D
// GET /pairs?search_by_asset=A&limit=50
func (ct *Controller) MgetOrSearch(c *fiber.Ctx) error {
	matcher := c.Query("matcher", ct.defaultMatcher)

	if raw := c.Query("pairs"); raw != "" {
		idPairs, err := controller.ParsePairs(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		for i, pair := range idPairs {
			amount, price := ct.orderer.Order(pair.AmountAsset, pair.PriceAsset)
			idPairs[i] = model.IDPair{AmountAsset: amount, PriceAsset: price}
		}

		infos, err := ct.pairs.Mget(c.Context(), idPairs, matcher)
		if err != nil {
			return controller.RespondError(c, err)
		}
		return c.JSON(fiber.Map{"data": infos})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	req := service.PairsSearchRequest{
		Matcher: matcher,
		Limit:   limit,
	}
	if assets := c.Query("search_by_asset"); assets != "" {
		req.SearchByAssets = strings.Split(assets, ",")
	}

	infos, err := ct.pairs.Search(c.Context(), req)
	if err != nil {
		return controller.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"data": infos})
}
