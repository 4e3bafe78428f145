package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
)

var validate = validator.New()

// ValidateInput runs struct-tag validation over a parsed request.
func ValidateInput(input interface{}) error {
	return validate.Struct(input)
}

// ParsePairs parses a comma separated list of "amountAsset/priceAsset"
// pair identifiers.
func ParsePairs(raw string) ([]model.IDPair, error) {
	if raw == "" {
		return nil, fmt.Errorf("pairs parameter is required")
	}

	parts := strings.Split(raw, ",")
	pairs := make([]model.IDPair, 0, len(parts))
	for _, part := range parts {
		ids := strings.Split(part, "/")
		if len(ids) != 2 || ids[0] == "" || ids[1] == "" {
			return nil, fmt.Errorf("invalid pair: %s", part)
		}
		pairs = append(pairs, model.IDPair{AmountAsset: ids[0], PriceAsset: ids[1]})
	}
	return pairs, nil
}

// ParseTimestamp accepts unix milliseconds or RFC3339. Empty input
// yields nil, meaning "current".
func ParseTimestamp(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.UnixMilli(millis).UTC()
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %s", raw)
	}
	t = t.UTC()
	return &t, nil
}

// RespondError maps service errors to HTTP statuses.
func RespondError(c *fiber.Ctx, err error) error {
	switch {
	case service.IsResolutionError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, service.ErrTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"message": err.Error()})
	default:
		var srcErr *service.SourceError
		if errors.As(err, &srcErr) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
		}
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
