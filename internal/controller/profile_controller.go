package controller

import (
	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/pkg/serverutils"
	"vidnotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Me(ctx *fiber.Ctx) error
	Setup(ctx *fiber.Ctx) error
}

type profileController struct {
	service service.IProfileService
}

func NewProfileController(service service.IProfileService) IProfileController {
	return &profileController{service: service}
}

func (c *profileController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/profile/v1", jwtMiddleware)
	h.Get("/me", c.Me)
	h.Post("/setup", c.Setup)
}

func (c *profileController) Me(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Me(ctx.UserContext(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *profileController) Setup(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SetupProfileRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Setup(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success setup profile", res))
}
