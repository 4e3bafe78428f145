package candles

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ordanov/datasvc/controller"
	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/storage"
)

// intervals supported by the candles endpoint
var intervals = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"3h":  3 * time.Hour,
	"6h":  6 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
}

func New(db storage.Storage, defaultMatcher string) *Controller {
	return &Controller{db: db, defaultMatcher: defaultMatcher}
}

type Controller struct {
	db             storage.Storage
	defaultMatcher string
}

// Search returns OHLC candles for a pair over a time range.
// GET /candles/:amountAsset/:priceAsset?timeStart=...&timeEnd=...&interval=1h
func (ct *Controller) Search(c *fiber.Ctx) error {
	interval, ok := intervals[c.Query("interval", "1h")]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unsupported interval"})
	}

	from, err := controller.ParseTimestamp(c.Query("timeStart"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	to, err := controller.ParseTimestamp(c.Query("timeEnd"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if from == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "timeStart is required"})
	}
	if to == nil {
		now := time.Now().UTC()
		to = &now
	}

	candles, err := ct.db.Candles(c.Context(), storage.CandlesRequest{
		Pair: model.IDPair{
			AmountAsset: c.Params("amountAsset"),
			PriceAsset:  c.Params("priceAsset"),
		},
		Matcher:  c.Query("matcher", ct.defaultMatcher),
		From:     *from,
		To:       *to,
		Interval: interval,
	})
	if err != nil {
		return controller.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"data": candles})
}
