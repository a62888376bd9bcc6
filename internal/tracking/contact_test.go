package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/betavietvn/leadtrack/internal/domain"
)

func TestClassifyContact(t *testing.T) {
	tests := []struct {
		name    string
		element domain.ElementInfo
		channel string
		matched bool
	}{
		{"tel link", domain.ElementInfo{Kind: "a", Href: "tel:+84915010800"}, "phone", true},
		{"mailto link", domain.ElementInfo{Kind: "a", Href: "mailto:info@betaviet.vn"}, "email", true},
		{"zalo link", domain.ElementInfo{Kind: "a", Href: "https://zalo.me/0915010800"}, "zalo", true},
		{"messenger link", domain.ElementInfo{Kind: "a", Href: "https://m.me/betaviet"}, "messenger", true},
		{"whatsapp link", domain.ElementInfo{Kind: "a", Href: "https://wa.me/84915010800?text=hi&app=whatsapp"}, "whatsapp", true},
		{"telegram link", domain.ElementInfo{Kind: "a", Href: "https://t.me/betaviet"}, "telegram", true},
		{"facebook link", domain.ElementInfo{Kind: "a", Href: "https://www.facebook.com/betaviet"}, "facebook", true},
		{"uppercase href", domain.ElementInfo{Kind: "a", Href: "TEL:0915010800"}, "phone", true},
		{"data attribute", domain.ElementInfo{Kind: "button", DataAttr: "hotline"}, "hotline", true},
		{"vietnamese cta text", domain.ElementInfo{Kind: "button", Text: "Nhận Tư Vấn Miễn Phí"}, "button", true},
		{"booking text", domain.ElementInfo{Kind: "button", Text: "Đặt lịch ngay"}, "button", true},
		{"plain navigation link", domain.ElementInfo{Kind: "a", Href: "https://betaviet.vn/du-an"}, "", false},
		{"plain button", domain.ElementInfo{Kind: "button", Text: "Xem thêm"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, ok := ClassifyContact(tt.element)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.channel, channel)
		})
	}
}
