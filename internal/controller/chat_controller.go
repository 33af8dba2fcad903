package controller

import (
	"ai-career-counselor-be/internal/constant"
	"ai-career-counselor-be/internal/dto"
	"ai-career-counselor-be/internal/pkg/serverutils"
	"ai-career-counselor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	GetSessions(ctx *fiber.Ctx) error
	GetSessionCount(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	UpdateSessionTitle(ctx *fiber.Ctx) error
	UpdateSessionActivity(ctx *fiber.Ctx) error
	ClearAllSessions(ctx *fiber.Ctx) error
}

type chatController struct {
	conversationService service.IConversationService
}

func NewChatController(conversationService service.IConversationService) IChatController {
	return &chatController{
		conversationService: conversationService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.ClientMiddleware)
	h.Post("message", c.SendMessage)
	h.Get("sessions/count", c.GetSessionCount)
	h.Get("sessions", c.GetSessions)
	h.Post("sessions", c.CreateSession)
	h.Delete("sessions", c.ClearAllSessions)
	h.Get("sessions/:sessionId/messages", c.GetMessages)
	h.Patch("sessions/:sessionId/title", c.UpdateSessionTitle)
	h.Patch("sessions/:sessionId/activity", c.UpdateSessionActivity)
	h.Delete("sessions/:sessionId", c.DeleteSession)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ClientId = serverutils.ClientId(ctx)
	req.Role = constant.ChatMessageRoleUser

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.SendMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	clientId := serverutils.ClientId(ctx)

	req := dto.GetPaginatedMessagesRequest{
		SessionId: ctx.Params("sessionId"),
		Limit:     ctx.QueryInt("limit", 0),
	}

	if raw := ctx.Query("cursor"); raw != "" {
		cursor, err := uuid.Parse(raw)
		if err != nil {
			return serverutils.NewValidationError("cursor must be a valid message id")
		}
		req.Cursor = &cursor
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.GetPaginatedMessages(ctx.Context(), clientId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch messages", res))
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	clientId := serverutils.ClientId(ctx)

	res, err := c.conversationService.GetSessions(ctx.Context(), clientId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch sessions", res))
}

func (c *chatController) GetSessionCount(ctx *fiber.Ctx) error {
	clientId := serverutils.ClientId(ctx)

	res, err := c.conversationService.GetSessionCount(ctx.Context(), clientId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch session count", res))
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ClientId = serverutils.ClientId(ctx)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	clientId := serverutils.ClientId(ctx)
	sessionKey := ctx.Params("sessionId")

	res, err := c.conversationService.DeleteSession(ctx.Context(), clientId, sessionKey)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", res))
}

func (c *chatController) UpdateSessionTitle(ctx *fiber.Ctx) error {
	clientId := serverutils.ClientId(ctx)

	var req dto.UpdateSessionTitleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = ctx.Params("sessionId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.UpdateSessionTitle(ctx.Context(), clientId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update session title", res))
}

func (c *chatController) UpdateSessionActivity(ctx *fiber.Ctx) error {
	clientId := serverutils.ClientId(ctx)

	var req dto.UpdateSessionActivityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = ctx.Params("sessionId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.UpdateSessionActivity(ctx.Context(), clientId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update session activity", res))
}

func (c *chatController) ClearAllSessions(ctx *fiber.Ctx) error {
	clientId := serverutils.ClientId(ctx)

	res, err := c.conversationService.ClearAllSessions(ctx.Context(), clientId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear sessions", res))
}
