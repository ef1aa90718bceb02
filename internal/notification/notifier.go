package notification

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/openpark/service-booking/internal/adapter"
	"github.com/openpark/service-booking/internal/events"
)

// Notifier formats and sends booking notifications over email and WhatsApp.
// Delivery failures are logged and swallowed; they must never roll back a
// booking or a promo increment.
type Notifier struct {
	mailer      adapter.Mailer
	texter      adapter.TextSender
	adminEmail  string
	adminNumber string
	logger      *zap.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(mailer adapter.Mailer, texter adapter.TextSender, adminEmail, adminNumber string, logger *zap.Logger) *Notifier {
	return &Notifier{
		mailer:      mailer,
		texter:      texter,
		adminEmail:  adminEmail,
		adminNumber: adminNumber,
		logger:      logger,
	}
}

// NotifyBookingCreated sends the customer and admin messages for a new
// booking. Each channel fails independently.
func (n *Notifier) NotifyBookingCreated(ctx context.Context, e events.BookingCreatedEvent) {
	if e.CustomerEmail != "" {
		subject := fmt.Sprintf("Your parking booking %s", shortID(e))
		if err := n.mailer.Send(ctx, e.CustomerEmail, subject, customerEmailBody(e)); err != nil {
			n.logger.Warn("customer email failed", zap.String("booking_id", e.BookingID.String()), zap.Error(err))
		}
	}

	if n.adminEmail != "" {
		subject := fmt.Sprintf("New parking booking %s", shortID(e))
		if err := n.mailer.Send(ctx, n.adminEmail, subject, adminEmailBody(e)); err != nil {
			n.logger.Warn("admin email failed", zap.String("booking_id", e.BookingID.String()), zap.Error(err))
		}
	}

	if e.CustomerPhone != "" {
		if err := n.texter.SendText(ctx, e.CustomerPhone, customerText(e)); err != nil {
			n.logger.Warn("customer whatsapp failed", zap.String("booking_id", e.BookingID.String()), zap.Error(err))
		}
	}

	if n.adminNumber != "" {
		if err := n.texter.SendText(ctx, n.adminNumber, adminText(e)); err != nil {
			n.logger.Warn("admin whatsapp failed", zap.String("booking_id", e.BookingID.String()), zap.Error(err))
		}
	}
}

func shortID(e events.BookingCreatedEvent) string {
	return "#" + e.BookingID.String()[:8]
}

func money(amount float64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, amount)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func customerEmailBody(e events.BookingCreatedEvent) string {
	var b strings.Builder
	b.WriteString("<h2>Thank you for your booking</h2>")
	fmt.Fprintf(&b, "<p>Hello %s,</p>", e.CustomerName)
	b.WriteString("<p>Your booking has been created successfully. Here are the details:</p><ul>")
	fmt.Fprintf(&b, "<li><strong>Booking ID:</strong> %s</li>", e.BookingID)
	fmt.Fprintf(&b, "<li><strong>Parking type:</strong> %s</li>", title(e.ParkingType))
	fmt.Fprintf(&b, "<li><strong>Booking type:</strong> %s</li>", title(e.BookingType))
	fmt.Fprintf(&b, "<li><strong>Start:</strong> %s</li>", e.StartAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "<li><strong>End:</strong> %s</li>", e.EndAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "<li><strong>Payment method:</strong> %s</li>", title(e.PaymentMethod))
	fmt.Fprintf(&b, "<li><strong>Base price:</strong> %s</li>", money(e.BasePrice, e.Currency))
	if e.OnlineDiscount > 0 {
		fmt.Fprintf(&b, "<li><strong>Online discount:</strong> -%s</li>", money(e.OnlineDiscount, e.Currency))
	}
	if e.PromoCode != "" {
		fmt.Fprintf(&b, "<li><strong>Promo code:</strong> %s (-%s)</li>", e.PromoCode, money(e.PromoDiscount, e.Currency))
	}
	fmt.Fprintf(&b, "<li><strong>Total:</strong> %s</li>", money(e.TotalPrice, e.Currency))
	fmt.Fprintf(&b, "<li><strong>Status:</strong> %s</li>", title(e.Status))
	b.WriteString("</ul><p>We look forward to seeing you.</p>")
	return b.String()
}

func adminEmailBody(e events.BookingCreatedEvent) string {
	var b strings.Builder
	b.WriteString("<h2>New parking booking</h2><ul>")
	fmt.Fprintf(&b, "<li><strong>ID:</strong> %s</li>", e.BookingID)
	fmt.Fprintf(&b, "<li><strong>Name:</strong> %s</li>", e.CustomerName)
	fmt.Fprintf(&b, "<li><strong>Email:</strong> %s</li>", e.CustomerEmail)
	fmt.Fprintf(&b, "<li><strong>Phone:</strong> %s</li>", e.CustomerPhone)
	fmt.Fprintf(&b, "<li><strong>Car Plate:</strong> %s</li>", e.CarPlate)
	fmt.Fprintf(&b, "<li><strong>Parking type:</strong> %s</li>", title(e.ParkingType))
	fmt.Fprintf(&b, "<li><strong>Booking type:</strong> %s</li>", title(e.BookingType))
	fmt.Fprintf(&b, "<li><strong>Start:</strong> %s</li>", e.StartAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "<li><strong>End:</strong> %s</li>", e.EndAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "<li><strong>Payment method:</strong> %s</li>", title(e.PaymentMethod))
	fmt.Fprintf(&b, "<li><strong>Total:</strong> %s</li>", money(e.TotalPrice, e.Currency))
	b.WriteString("</ul>")
	return b.String()
}

func customerText(e events.BookingCreatedEvent) string {
	return fmt.Sprintf(
		"Hello %s, your parking booking %s has been created.\nType: %s (%s)\nFrom: %s\nTo: %s\nPayment: %s\nTotal: %s",
		e.CustomerName, shortID(e),
		e.ParkingType, e.BookingType,
		e.StartAt.Format("2006-01-02 15:04"),
		e.EndAt.Format("2006-01-02 15:04"),
		e.PaymentMethod,
		money(e.TotalPrice, e.Currency),
	)
}

func adminText(e events.BookingCreatedEvent) string {
	return fmt.Sprintf(
		"New booking %s\nName: %s\nPhone: %s\nType: %s (%s)\nTotal: %s",
		shortID(e),
		e.CustomerName, e.CustomerPhone,
		e.ParkingType, e.BookingType,
		money(e.TotalPrice, e.Currency),
	)
}
