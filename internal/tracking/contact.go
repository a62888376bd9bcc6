package tracking

import (
	"strings"

	"github.com/betavietvn/leadtrack/internal/domain"
)

// Contact button labels common on Vietnamese marketing sites. Matched as
// substrings of the lowercased element text.
var contactButtonKeywords = []string{
	"đặt lịch",
	"liên hệ",
	"tư vấn",
	"gọi ngay",
	"gửi",
	"đăng ký",
}

// ClassifyContact decides whether the clicked element is a contact
// affordance and names its channel. Href schemes win over everything else;
// an explicit data-contact attribute beats text matching.
func ClassifyContact(el domain.ElementInfo) (string, bool) {
	href := strings.ToLower(el.Href)

	switch {
	case strings.HasPrefix(href, "tel:"):
		return "phone", true
	case strings.HasPrefix(href, "mailto:"):
		return "email", true
	case strings.Contains(href, "zalo.me"):
		return "zalo", true
	case strings.Contains(href, "m.me") || strings.Contains(href, "messenger"):
		return "messenger", true
	case strings.Contains(href, "whatsapp"):
		return "whatsapp", true
	case strings.Contains(href, "viber"):
		return "viber", true
	case strings.Contains(href, "t.me") || strings.Contains(href, "telegram"):
		return "telegram", true
	case strings.Contains(href, "skype"):
		return "skype", true
	case strings.Contains(href, "facebook.com"):
		return "facebook", true
	}

	if el.DataAttr != "" {
		return el.DataAttr, true
	}

	text := strings.ToLower(el.Text)
	for _, kw := range contactButtonKeywords {
		if strings.Contains(text, kw) {
			return "button", true
		}
	}

	return "", false
}
