package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cafe180/internal/models"
	"cafe180/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTelegramService struct {
	ok        bool
	lastOrder *models.OrderRecord
}

func (s *stubTelegramService) SendOrderNotification(order *models.OrderRecord) bool {
	s.lastOrder = order
	return s.ok
}

func (s *stubTelegramService) SendSupportNotification(*models.SupportRequest) bool {
	return s.ok
}

func (s *stubTelegramService) SendCallbackNotification(*models.CallbackRequest) bool {
	return s.ok
}

type stubGuard struct {
	allow    bool
	released []string
}

func (g *stubGuard) Allow(string) bool { return g.allow }

func (g *stubGuard) Release(phone string) { g.released = append(g.released, phone) }

func newTestRouter(telegram services.TelegramService, guard services.SubmissionGuard) *gin.Engine {
	gin.SetMode(gin.TestMode)

	orderService := services.NewOrderService(
		services.DeliveryRules{MinOrder: 20, FreeFrom: 40, Fee: 8}, "Новополоцк")
	handler := NewOrderHandler(orderService, telegram, guard)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/order", handler.SubmitOrder)
	api.POST("/support", handler.SubmitSupport)
	api.POST("/callback", handler.SubmitCallback)
	return router
}

func doPost(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitOrder_Success(t *testing.T) {
	telegram := &stubTelegramService{ok: true}
	guard := &stubGuard{allow: true}
	router := newTestRouter(telegram, guard)

	w := doPost(t, router, "/api/order", `{
		"name": "Иван",
		"phone": "+375291234567",
		"type": "Самовывоз",
		"items": [{"name": "Пицца", "price": 15, "quantity": 1}]
	}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())
	require.NotNil(t, telegram.lastOrder)
	assert.Equal(t, 15.0, telegram.lastOrder.TotalAmount)
	assert.Empty(t, guard.released, "successful send keeps the throttle slot")
}

func TestSubmitOrder_InvalidJSON(t *testing.T) {
	router := newTestRouter(&stubTelegramService{ok: true}, &stubGuard{allow: true})

	w := doPost(t, router, "/api/order", `{invalid}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitOrder_DeliveryBelowMinimum(t *testing.T) {
	telegram := &stubTelegramService{ok: true}
	router := newTestRouter(telegram, &stubGuard{allow: true})

	w := doPost(t, router, "/api/order", `{
		"type": "Доставка",
		"items": [{"name": "Суп", "price": 5, "quantity": 2}]
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Минимальный заказ")
	assert.Nil(t, telegram.lastOrder, "rejected order must not be sent")
}

func TestSubmitOrder_Throttled(t *testing.T) {
	telegram := &stubTelegramService{ok: true}
	router := newTestRouter(telegram, &stubGuard{allow: false})

	w := doPost(t, router, "/api/order", `{
		"phone": "+375291234567",
		"items": [{"name": "Пицца", "price": 15, "quantity": 1}]
	}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Nil(t, telegram.lastOrder)
}

func TestSubmitOrder_TelegramFailure(t *testing.T) {
	guard := &stubGuard{allow: true}
	router := newTestRouter(&stubTelegramService{ok: false}, guard)

	w := doPost(t, router, "/api/order", `{
		"phone": "+375291234567",
		"items": [{"name": "Пицца", "price": 15, "quantity": 1}]
	}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Не удалось отправить в Telegram")
	assert.Equal(t, []string{"+375291234567"}, guard.released,
		"failed send frees the throttle slot for an immediate retry")
}

func TestSubmitSupport(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(&stubTelegramService{ok: true}, &stubGuard{allow: true})

		w := doPost(t, router, "/api/support", `{"name": "Анна", "phone": "1", "message": "вопрос"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("sink failure", func(t *testing.T) {
		guard := &stubGuard{allow: true}
		router := newTestRouter(&stubTelegramService{ok: false}, guard)

		w := doPost(t, router, "/api/support", `{"phone": "1"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, []string{"1"}, guard.released)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		router := newTestRouter(&stubTelegramService{ok: true}, &stubGuard{allow: true})

		w := doPost(t, router, "/api/support", `not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSubmitCallback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(&stubTelegramService{ok: true}, &stubGuard{allow: true})

		w := doPost(t, router, "/api/callback", `{"phone": "80291234567"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("throttled", func(t *testing.T) {
		router := newTestRouter(&stubTelegramService{ok: true}, &stubGuard{allow: false})

		w := doPost(t, router, "/api/callback", `{"phone": "80291234567"}`)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}
