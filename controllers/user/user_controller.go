package controllers

import (
	"context"
	"time"

	"github.com/aryanwebd35/food-factory/middlewares"
	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/responses"
	"github.com/gofiber/fiber/v2"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	GoogleLogin(ctx context.Context, idToken string) (string, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type UserController struct {
	users UserService
}

func NewUserController(users UserService) *UserController {
	return &UserController{users: users}
}

func (h *UserController) Register(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request format"))
	}

	token, err := h.users.Register(ctx, reqBody.Name, reqBody.Email, reqBody.Password)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.TokenResponse{Success: true, Token: token})
}

func (h *UserController) Login(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request format"))
	}

	token, err := h.users.Login(ctx, reqBody.Email, reqBody.Password)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.TokenResponse{Success: true, Token: token})
}

// GoogleLogin expects the ID token from Google Identity Services under
// "token" or "credential".
func (h *UserController) GoogleLogin(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		Token      string `json:"token"`
		Credential string `json:"credential"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request format"))
	}
	idToken := reqBody.Token
	if idToken == "" {
		idToken = reqBody.Credential
	}
	if idToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Token is required"))
	}

	token, err := h.users.GoogleLogin(ctx, idToken)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.TokenResponse{Success: true, Token: token})
}

func (h *UserController) Profile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	user, err := h.users.Profile(ctx, middlewares.UserID(c))
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.DataResponse{Success: true, Data: user})
}
