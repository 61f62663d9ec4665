package controllers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/responses"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type FoodService interface {
	UploadDir() string
	List(ctx context.Context) ([]models.Food, error)
	Add(ctx context.Context, food *models.Food) error
	Remove(ctx context.Context, id string) error
}

type FoodController struct {
	foods FoodService
	now   func() time.Time
}

func NewFoodController(foods FoodService) *FoodController {
	return &FoodController{foods: foods, now: time.Now}
}

func (h *FoodController) ListFood(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	foods, err := h.foods.List(ctx)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.DataResponse{Success: true, Data: foods})
}

// AddFood takes a multipart form with name, description, price, category
// and an image file.
func (h *FoodController) AddFood(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid price"))
	}

	image, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Image is required"))
	}
	filename := fmt.Sprintf("%d%s", h.now().UnixMilli(), filepath.Base(image.Filename))
	if err := c.SaveFile(image, filepath.Join(h.foods.UploadDir(), filename)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.Fail("Error saving image"))
	}

	food := &models.Food{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		Category:    c.FormValue("category"),
		Image:       filename,
	}
	if err := h.foods.Add(ctx, food); err != nil {
		_ = os.Remove(filepath.Join(h.foods.UploadDir(), filename))
		return responses.Error(c, err)
	}
	return c.JSON(responses.OK("Food Added"))
}

func (h *FoodController) RemoveFood(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&reqBody); err != nil || reqBody.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request format"))
	}

	if err := h.foods.Remove(ctx, reqBody.ID); err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.OK("Food Removed"))
}
