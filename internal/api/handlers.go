package api

import (
	"errors"
	"strings"
	"time"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/purchase"
	"github.com/gofiber/fiber/v2"
)

// purchaseRequest is the body of POST /api/purchases. ItemID and ShopID
// take precedence over the names when set.
type purchaseRequest struct {
	Date         *time.Time `json:"date"`
	PricePerUnit *float64   `json:"pricePerUnit"`
	Quantity     *float64   `json:"quantity"`
	Item         string     `json:"item"`
	ItemID       string     `json:"itemId"`
	Shop         string     `json:"shop"`
	ShopID       string     `json:"shopId"`
	Unit         string     `json:"unit"`
}

func (s *Server) listItems(c *fiber.Ctx) error {
	items, err := s.reader.Items(c.UserContext())
	if err != nil {
		return err
	}
	if q := c.Query("q"); q != "" {
		items = purchase.MatchItems(q, items)
	}
	if items == nil {
		items = []model.Item{}
	}
	return c.JSON(items)
}

func (s *Server) listShops(c *fiber.Ctx) error {
	shops, err := s.reader.Shops(c.UserContext())
	if err != nil {
		return err
	}
	if q := c.Query("q"); q != "" {
		shops = purchase.MatchShops(q, shops)
	}
	if shops == nil {
		shops = []model.Shop{}
	}
	return c.JSON(shops)
}

func (s *Server) listTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", purchase.DefaultRecentLimit)
	if limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be positive"})
	}

	txns, err := s.reader.RecentTransactions(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	return c.JSON(txns)
}

func (s *Server) listHistory(c *fiber.Ctx) error {
	summaries, err := s.reader.History(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	if summaries == nil {
		summaries = []purchase.ItemSummary{}
	}
	return c.JSON(summaries)
}

func (s *Server) createPurchase(c *fiber.Ctx) error {
	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "detail": err.Error()})
	}

	candidate, err := s.candidate(c, req)
	if err != nil {
		return s.commitFailed(c, err)
	}

	result, err := s.committer.Commit(c.UserContext(), candidate)
	if err != nil {
		return s.commitFailed(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result.Transaction)
}

// candidate resolves the request against the current item and shop lists.
func (s *Server) candidate(c *fiber.Ctx, req purchaseRequest) (purchase.Candidate, error) {
	ctx := c.UserContext()
	items, err := s.reader.Items(ctx)
	if err != nil {
		return purchase.Candidate{}, err
	}
	shops, err := s.reader.Shops(ctx)
	if err != nil {
		return purchase.Candidate{}, err
	}

	candidate := purchase.Candidate{
		PricePerUnit: req.PricePerUnit,
		Quantity:     req.Quantity,
		Unit:         strings.TrimSpace(req.Unit),
	}
	if req.Date != nil {
		candidate.Date = *req.Date
	}

	var match *model.Item
	if req.ItemID != "" {
		match = findItem(items, req.ItemID)
		if match == nil {
			return purchase.Candidate{}, common.NewValidationError("itemId", "unknown item")
		}
		candidate.Item = model.Known(match.ID, match.Name)
	} else {
		candidate.Item, match = purchase.ResolveItem(req.Item, items)
	}
	if match != nil {
		candidate.LastPrice = match.LastPrice
		if candidate.Unit == "" {
			candidate.Unit = match.Unit
		}
	}

	if req.ShopID != "" {
		shop := findShop(shops, req.ShopID)
		if shop == nil {
			return purchase.Candidate{}, common.NewValidationError("shopId", "unknown shop")
		}
		candidate.Shop = model.Known(shop.ID, shop.Name)
	} else {
		candidate.Shop = purchase.ResolveShop(req.Shop, shops)
	}

	return candidate, nil
}

func (s *Server) commitFailed(c *fiber.Ctx, err error) error {
	var validation *common.ValidationError
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validation.Error(),
			"field": validation.Field,
		})
	case errors.Is(err, common.ErrCommitInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		s.logger.Error("Failed to save purchase", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save purchase"})
	}
}

func findItem(items []model.Item, id string) *model.Item {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func findShop(shops []model.Shop, id string) *model.Shop {
	for i := range shops {
		if shops[i].ID == id {
			return &shops[i]
		}
	}
	return nil
}
