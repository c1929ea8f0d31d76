package usecase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/pkg/utils"
)

const handoffTimeLayout = "2006-01-02 15:04"

// HandoffBuilder formats the pre-filled chat message a customer sends to the
// shop to confirm a hold. Delivery happens outside this service.
type HandoffBuilder struct {
	baseURL   string
	shopPhone string
	loc       *time.Location
}

func NewHandoffBuilder(cfg utils.MessagingConfig, loc *time.Location) *HandoffBuilder {
	if loc == nil {
		loc = time.UTC
	}
	base := cfg.BaseURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &HandoffBuilder{
		baseURL:   base,
		shopPhone: digitsOnly(cfg.ShopPhone),
		loc:       loc,
	}
}

func (h *HandoffBuilder) Message(booking *entity.Booking, costumeName string) string {
	var sb strings.Builder
	sb.WriteString("Hello! I would like to confirm my costume booking.\n")
	fmt.Fprintf(&sb, "Reference: %s\n", booking.BookingReference)
	fmt.Fprintf(&sb, "Costume: %s\n", costumeName)
	fmt.Fprintf(&sb, "From: %s\n", booking.StartDate.In(h.loc).Format(handoffTimeLayout))
	fmt.Fprintf(&sb, "Until: %s\n", booking.EndDate.In(h.loc).Format(handoffTimeLayout))
	if booking.DurationCode != nil {
		fmt.Fprintf(&sb, "Duration: %s\n", *booking.DurationCode)
	}
	fmt.Fprintf(&sb, "Price: %.2f\n", booking.TotalPrice)
	fmt.Fprintf(&sb, "Security deposit: %.2f\n", booking.SecurityDeposit)
	fmt.Fprintf(&sb, "Name: %s\n", booking.CustomerName)
	if booking.BlockedUntil != nil {
		fmt.Fprintf(&sb, "Hold expires: %s", booking.BlockedUntil.In(h.loc).Format(handoffTimeLayout))
	}
	return sb.String()
}

// Link returns the deep link carrying Message, or an empty string when no
// shop phone is configured.
func (h *HandoffBuilder) Link(booking *entity.Booking, costumeName string) string {
	if h.baseURL == "" || h.shopPhone == "" {
		return ""
	}
	text := strings.ReplaceAll(url.QueryEscape(h.Message(booking, costumeName)), "+", "%20")
	return h.baseURL + h.shopPhone + "?text=" + text
}

func digitsOnly(phone string) string {
	var sb strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
