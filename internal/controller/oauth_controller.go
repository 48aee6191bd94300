package controller

import (
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	oauthService   service.IOAuthService
	callbackRouter service.IAuthCallbackRouter
}

func NewOAuthController(oauthService service.IOAuthService, callbackRouter service.IAuthCallbackRouter) IOAuthController {
	return &oauthController{
		oauthService:   oauthService,
		callbackRouter: callbackRouter,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	// Registered before /:provider so "callback" is not read as a provider name
	h.Get("/callback", c.Callback)
	h.Get("/:provider", c.Login)
}

// Login redirects to the provider. share_token and share_type, when valid, ride along in the state.
func (c *oauthController) Login(ctx *fiber.Ctx) error {
	shareCtx := entity.NewShareContext(ctx.Query("share_token"), ctx.Query("share_type"))

	url, err := c.oauthService.GetLoginURL(ctx.UserContext(), ctx.Params("provider"), shareCtx)
	if err != nil {
		return err
	}

	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

// Callback always answers with a redirect, never a JSON error.
func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	out := c.callbackRouter.Route(ctx.UserContext(), service.CallbackInput{
		Code:       ctx.Query("code"),
		State:      ctx.Query("state"),
		ShareToken: ctx.Query("share_token"),
		ShareType:  ctx.Query("share_type"),
	})

	return ctx.Redirect(out.RedirectURL, fiber.StatusTemporaryRedirect)
}
