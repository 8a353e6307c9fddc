package controller

import (
	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/pkg/serverutils"
	"doc-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetThreshold(ctx *fiber.Ctx) error
	UpdateThreshold(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get(":id/messages", c.GetMessages)
	h.Delete(":id", c.Delete)
	h.Get(":id/threshold", c.GetThreshold)
	h.Post(":id/threshold", c.UpdateThreshold)
}

func parseChatId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid chat id")
	}
	return id, nil
}

func (c *chatController) Create(ctx *fiber.Ctx) error {
	res, err := c.service.Create(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create chat", res))
}

func (c *chatController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all chats", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	chatId, err := parseChatId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetMessages(ctx.Context(), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat messages", res))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	chatId, err := parseChatId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Delete(ctx.Context(), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete chat", res))
}

func (c *chatController) GetThreshold(ctx *fiber.Ctx) error {
	chatId, err := parseChatId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetThreshold(ctx.Context(), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get threshold", res))
}

func (c *chatController) UpdateThreshold(ctx *fiber.Ctx) error {
	chatId, err := parseChatId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateThresholdRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateThreshold(ctx.Context(), chatId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update threshold", res))
}
