package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"cafe180/internal/models"
)

const messageTimeLayout = "02.01.2006 15:04:05"

// MessageSender is the delivery sink for formatted notifications.
// Implemented by pkg/telegram.Client.
type MessageSender interface {
	SendTextMessage(chatID, text, parseMode string) error
}

type TelegramService interface {
	SendOrderNotification(order *models.OrderRecord) bool
	SendSupportNotification(req *models.SupportRequest) bool
	SendCallbackNotification(req *models.CallbackRequest) bool
}

type telegramService struct {
	sender MessageSender
	chatID string
	now    func() time.Time
}

func NewTelegramService(sender MessageSender, chatID string) TelegramService {
	return &telegramService{sender: sender, chatID: chatID, now: time.Now}
}

func (s *telegramService) SendOrderNotification(order *models.OrderRecord) bool {
	return s.send(FormatOrderMessage(order, s.now()))
}

func (s *telegramService) SendSupportNotification(req *models.SupportRequest) bool {
	return s.send(FormatSupportMessage(req))
}

func (s *telegramService) SendCallbackNotification(req *models.CallbackRequest) bool {
	return s.send(FormatCallbackMessage(req))
}

// send converts any sink failure into a boolean so a Telegram outage
// never panics past the handler.
func (s *telegramService) send(message string) bool {
	if err := s.sender.SendTextMessage(s.chatID, message, "HTML"); err != nil {
		log.Printf("Failed to send Telegram notification: %v", err)
		return false
	}
	return true
}

// escape neutralizes the HTML subset Telegram interprets. Every
// user-supplied string goes through it before insertion.
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return escaper.Replace(s)
}

// ItemGroup is a display grouping of a base dish and the toppings that
// follow it in the flat item list.
type ItemGroup struct {
	Base     models.OrderItem
	Toppings []models.OrderItem
}

func (g ItemGroup) Total() float64 {
	total := g.Base.LineTotal()
	for _, t := range g.Toppings {
		total += t.LineTotal()
	}
	return total
}

// GroupItems is a pure scan over the ordered item list: a weighted item
// opens a new group, weightless items attach to the preceding base dish.
// A weightless item with no base dish before it becomes a standalone
// group, so flat orders render one numbered line per item and nothing is
// dropped.
func GroupItems(items []models.OrderItem) []ItemGroup {
	groups := make([]ItemGroup, 0, len(items))
	for _, item := range items {
		if item.IsBaseDish() {
			groups = append(groups, ItemGroup{Base: item})
			continue
		}
		if len(groups) > 0 && groups[len(groups)-1].Base.IsBaseDish() {
			last := &groups[len(groups)-1]
			last.Toppings = append(last.Toppings, item)
			continue
		}
		groups = append(groups, ItemGroup{Base: item})
	}
	return groups
}

// FormatOrderMessage renders the order into the Telegram HTML message
// posted to the staff chat. The timestamp is passed in so rendering is
// deterministic.
func FormatOrderMessage(order *models.OrderRecord, submittedAt time.Time) string {
	var b strings.Builder

	b.WriteString("<b>🎉 НОВЫЙ ЗАКАЗ!</b>\n\n")
	fmt.Fprintf(&b, "<b>👤 Клиент:</b> %s\n", escape(order.CustomerName))
	fmt.Fprintf(&b, "<b>📞 Телефон:</b> %s\n", escape(order.Phone))
	if order.Email != "" {
		fmt.Fprintf(&b, "<b>📧 Email:</b> %s\n", escape(order.Email))
	}
	if order.Type != "" {
		fmt.Fprintf(&b, "<b>📝 Тип:</b> %s\n", escape(order.Type))
	}
	if order.DeliveryType != "" {
		fmt.Fprintf(&b, "<b>🚚 Доставка:</b> %s\n", escape(order.DeliveryType))
	}
	if order.PreorderDay != "" || order.PreorderTime != "" {
		preorder := strings.TrimSpace(order.PreorderDay + " " + order.PreorderTime)
		fmt.Fprintf(&b, "<b>⏳ Предзаказ:</b> %s\n", escape(preorder))
	}
	if order.PaymentType != "" {
		fmt.Fprintf(&b, "<b>💳 Оплата:</b> %s\n", escape(order.PaymentType))
	}

	fmt.Fprintf(&b, "\n<b>🏙️ Город:</b> %s\n", escape(order.City))
	if order.Address != "" {
		fmt.Fprintf(&b, "<b>📍 Адрес:</b> %s\n", escape(order.Address))
	}
	if order.Comment != "" {
		fmt.Fprintf(&b, "\n<b>💬 Комментарий:</b> %s\n", escape(order.Comment))
	}

	b.WriteString("\n<b>🛒 Позиции:</b>\n")
	for i, group := range GroupItems(order.Items) {
		weightText := ""
		if group.Base.Weight > 0 {
			weightText = fmt.Sprintf(", %.0f г", group.Base.Weight)
		}
		fmt.Fprintf(&b, "%d. %s%s — %d × %.2f ₽ = %.2f ₽\n",
			i+1, escape(group.Base.Name), weightText,
			group.Base.Quantity, group.Base.Price, group.Base.LineTotal())

		for _, t := range group.Toppings {
			fmt.Fprintf(&b, "   ➕ %s — %d × %.2f ₽ = %.2f ₽\n",
				escape(t.Name), t.Quantity, t.Price, t.LineTotal())
		}
		if len(group.Toppings) > 0 {
			parts := make([]string, 0, len(group.Toppings)+1)
			parts = append(parts, fmt.Sprintf("%.2f", group.Base.LineTotal()))
			for _, t := range group.Toppings {
				parts = append(parts, fmt.Sprintf("%.2f", t.LineTotal()))
			}
			fmt.Fprintf(&b, "   💵 Вместе: %s = %.2f ₽\n", strings.Join(parts, " + "), group.Total())
			b.WriteString("   ──────────\n")
		}
	}

	if order.IsDelivery() {
		if order.DeliveryFee > 0 {
			fmt.Fprintf(&b, "\n<b>🚚 Стоимость доставки:</b> %.2f ₽\n", order.DeliveryFee)
		} else {
			b.WriteString("\n<b>🚚 Стоимость доставки:</b> бесплатно\n")
		}
	}

	fmt.Fprintf(&b, "\n<b>💰 Итого:</b> %.2f ₽\n", order.TotalAmount)
	fmt.Fprintf(&b, "<b>⏰ Время заявки:</b> %s", submittedAt.Format(messageTimeLayout))

	return b.String()
}

func FormatSupportMessage(req *models.SupportRequest) string {
	var b strings.Builder

	b.WriteString("<b>🛠 НОВОЕ ОБРАЩЕНИЕ</b>\n\n")
	writeField(&b, "👤 Имя", req.Name)
	writeField(&b, "📞 Телефон", req.Phone)
	writeField(&b, "🔢 Номер", req.PhoneDigits)
	writeField(&b, "🏙️ Город", req.City)
	writeField(&b, "🏢 Компания", req.Company)
	writeField(&b, "📄 Страница", req.Page)
	writeField(&b, "📱 Источник", req.Source)
	writeField(&b, "🌐 IP", req.IP)
	writeField(&b, "🧭 User-Agent", req.UserAgent)
	writeField(&b, "💬 Сообщение", req.Message)
	fmt.Fprintf(&b, "\n<b>⏰ Время заявки:</b> %s", req.CreatedAt.Format(messageTimeLayout))

	return b.String()
}

func FormatCallbackMessage(req *models.CallbackRequest) string {
	var b strings.Builder

	b.WriteString("<b>📲 ЗАКАЗ ЗВОНКА</b>\n\n")
	writeField(&b, "👤 Имя", req.Name)
	writeField(&b, "📞 Телефон", req.Phone)
	writeField(&b, "📄 Страница", req.Page)
	writeField(&b, "📱 Источник", req.Source)
	writeField(&b, "🌐 IP", req.IP)
	writeField(&b, "🧭 User-Agent", req.UserAgent)
	fmt.Fprintf(&b, "\n<b>⏰ Время заявки:</b> %s", req.CreatedAt.Format(messageTimeLayout))

	return b.String()
}

// writeField emits a key-value line, skipping empty values.
func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<b>%s:</b> %s\n", label, escape(value))
}
