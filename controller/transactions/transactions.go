package transactions

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ordanov/datasvc/controller"
	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/storage"
)

func New(db storage.Storage, defaultMatcher string) *Controller {
	return &Controller{db: db, defaultMatcher: defaultMatcher}
}

type Controller struct {
	db             storage.Storage
	defaultMatcher string
}

// SearchExchange lists exchange transactions matching the filters.
// GET /transactions/exchange?amountAsset=&priceAsset=&sender=&timeStart=&timeEnd=&limit=
func (ct *Controller) SearchExchange(c *fiber.Ctx) error {
	req := storage.TransactionsRequest{
		Matcher: c.Query("matcher", ct.defaultMatcher),
		Sender:  c.Query("sender"),
	}

	amountAsset := c.Query("amountAsset")
	priceAsset := c.Query("priceAsset")
	if amountAsset != "" || priceAsset != "" {
		req.Pair = &model.IDPair{AmountAsset: amountAsset, PriceAsset: priceAsset}
	}

	from, err := controller.ParseTimestamp(c.Query("timeStart"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	to, err := controller.ParseTimestamp(c.Query("timeEnd"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	req.TimeStart = time.Unix(0, 0).UTC()
	if from != nil {
		req.TimeStart = *from
	}
	req.TimeEnd = time.Now().UTC()
	if to != nil {
		req.TimeEnd = *to
	}

	req.Limit, _ = strconv.Atoi(c.Query("limit", "100"))

	txs, err := ct.db.ExchangeTransactions(c.Context(), req)
	if err != nil {
		return controller.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"data": txs})
}
