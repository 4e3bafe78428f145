package rates

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ordanov/datasvc/controller"
	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
	"github.com/ordanov/datasvc/service/pairs"
	ratesvc "github.com/ordanov/datasvc/service/rates"
)

func New(estimator *ratesvc.Estimator, orderer *pairs.Orderer, defaultMatcher string) *Controller {
	return &Controller{
		estimator:      estimator,
		orderer:        orderer,
		defaultMatcher: defaultMatcher,
	}
}

type Controller struct {
	estimator      *ratesvc.Estimator
	orderer        *pairs.Orderer
	defaultMatcher string
}

type mgetBody struct {
	Pairs     []string `json:"pairs" validate:"required,min=1,dive,required"`
	Timestamp string   `json:"timestamp"`
}

// Mget resolves rates for a batch of pairs.
// POST /matchers/:matcher/rates  body: {"pairs": ["A/B", ...], "timestamp": ...}
func (ct *Controller) Mget(c *fiber.Ctx) error {
	body := mgetBody{}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed body"})
	}
	if err := controller.ValidateInput(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	matcher := c.Params("matcher")
	if matcher == "" {
		matcher = ct.defaultMatcher
	}

	return ct.respond(c, matcher, strings.Join(body.Pairs, ","), body.Timestamp)
}

// Get resolves rates for pairs given in the query string.
// GET /rates?pairs=A/B,C/D&timestamp=...
func (ct *Controller) Get(c *fiber.Ctx) error {
	matcher := c.Query("matcher", ct.defaultMatcher)
	return ct.respond(c, matcher, c.Query("pairs"), c.Query("timestamp"))
}

func (ct *Controller) respond(c *fiber.Ctx, matcher, rawPairs, rawTimestamp string) error {
	idPairs, err := controller.ParsePairs(rawPairs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	timestamp, err := controller.ParseTimestamp(rawTimestamp)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// cache keys are sensitive to amount/price ordering, canonicalize
	// before the pairs reach the estimator
	for i, pair := range idPairs {
		amount, price := ct.orderer.Order(pair.AmountAsset, pair.PriceAsset)
		idPairs[i] = model.IDPair{AmountAsset: amount, PriceAsset: price}
	}

	log.Debug().Str("matcher", matcher).Int("pairs", len(idPairs)).Msg("rates requested")

	results, err := ct.estimator.Mget(c.Context(), service.RateMgetRequest{
		Pairs:     idPairs,
		Matcher:   matcher,
		Timestamp: timestamp,
	})
	if err != nil {
		return controller.RespondError(c, err)
	}

	payload := make([]fiber.Map, 0, len(results))
	for _, slot := range results {
		entry := fiber.Map{"pair": slot.Req.String()}
		if slot.Res != nil {
			entry["data"] = fiber.Map{"rate": slot.Res.Rate}
		} else {
			entry["data"] = nil
		}
		payload = append(payload, entry)
	}
	return c.JSON(fiber.Map{"data": payload})
}
