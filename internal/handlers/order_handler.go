package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"cafe180/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService    services.OrderService
	telegramService services.TelegramService
	guard           services.SubmissionGuard
}

func NewOrderHandler(
	orderService services.OrderService,
	telegramService services.TelegramService,
	guard services.SubmissionGuard,
) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		telegramService: telegramService,
		guard:           guard,
	}
}

func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Некорректный формат запроса"})
		return
	}

	order, err := h.orderService.Normalize(payload)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": vErr.Message})
			return
		}
		log.Printf("Unexpected error normalizing order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Внутренняя ошибка сервера"})
		return
	}

	if !h.guard.Allow(order.Phone) {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Слишком много запросов, попробуйте позже"})
		return
	}

	if !h.telegramService.SendOrderNotification(order) {
		// free the throttle slot so the visitor can retry at once
		h.guard.Release(order.Phone)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Не удалось отправить в Telegram"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *OrderHandler) SubmitSupport(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Некорректный формат запроса"})
		return
	}

	req := h.orderService.NormalizeSupport(payload)
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()
	req.CreatedAt = time.Now()

	if !h.guard.Allow(req.Phone) {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Слишком много запросов, попробуйте позже"})
		return
	}

	if !h.telegramService.SendSupportNotification(req) {
		h.guard.Release(req.Phone)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Не удалось отправить в Telegram"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *OrderHandler) SubmitCallback(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Некорректный формат запроса"})
		return
	}

	req := h.orderService.NormalizeCallback(payload)
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()
	req.CreatedAt = time.Now()

	if !h.guard.Allow(req.Phone) {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Слишком много запросов, попробуйте позже"})
		return
	}

	if !h.telegramService.SendCallbackNotification(req) {
		h.guard.Release(req.Phone)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Не удалось отправить в Telegram"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
