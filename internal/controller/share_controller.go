package controller

import (
	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/pkg/serverutils"
	"vidnotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IShareController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler, publicLimiter fiber.Handler)
	SharePage(ctx *fiber.Ctx) error
	ShareNote(ctx *fiber.Ctx) error
	Fork(ctx *fiber.Ctx) error
	ViewPage(ctx *fiber.Ctx) error
	ViewNote(ctx *fiber.Ctx) error
}

type shareController struct {
	shareService service.IShareService
	forkService  service.IForkService
}

func NewShareController(shareService service.IShareService, forkService service.IForkService) IShareController {
	return &shareController{
		shareService: shareService,
		forkService:  forkService,
	}
}

func (c *shareController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler, publicLimiter fiber.Handler) {
	h := r.Group("/share")

	h.Post("", jwtMiddleware, c.SharePage)
	h.Post("/note", jwtMiddleware, c.ShareNote)
	h.Post("/fork", jwtMiddleware, c.Fork)

	// Public, read-only. The note route goes first so "note" is never taken as a token.
	h.Get("/note/:token", publicLimiter, c.ViewNote)
	h.Get("/:token", publicLimiter, c.ViewPage)
}

func (c *shareController) SharePage(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SharePageRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	token, err := c.shareService.Issue(ctx.UserContext(), userId, entity.ShareKindPage, req.PageId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success share page", &dto.ShareTokenResponse{
		ShareToken: token.Token,
		ExpiresAt:  token.ExpiresAt,
	}))
}

func (c *shareController) ShareNote(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ShareNoteRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	token, err := c.shareService.Issue(ctx.UserContext(), userId, entity.ShareKindNote, req.NoteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success share note", &dto.ShareTokenResponse{
		ShareToken: token.Token,
		ExpiresAt:  token.ExpiresAt,
	}))
}

func (c *shareController) Fork(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ForkRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	kind, err := entity.ParseShareKind(req.ShareType)
	if err != nil {
		return apperror.Validation("share_type must be page or note")
	}

	res, err := c.forkService.Fork(ctx.UserContext(), userId, kind, req.ShareToken)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *shareController) ViewPage(ctx *fiber.Ctx) error {
	res, err := c.shareService.GetSharedPage(ctx.UserContext(), ctx.Params("token"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get shared page", res))
}

func (c *shareController) ViewNote(ctx *fiber.Ctx) error {
	res, err := c.shareService.GetSharedNote(ctx.UserContext(), ctx.Params("token"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get shared note", res))
}
