// Package templates renders agent notifications
package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
)

// PriceAlertSubject returns the email subject of a price drop alert
func PriceAlertSubject(alert entity.PriceCheckResult) string {
	subject := fmt.Sprintf("[%s] Giá vé giảm %s: %s", alert.Airline, FormatAmount(-alert.PriceDifference), alert.Route)
	if alert.PNR != "" {
		subject += " (" + alert.PNR + ")"
	}
	return subject
}

// PriceAlertBody returns the plain text body of a price drop alert
func PriceAlertBody(profile *entity.AgentProfile, alert entity.PriceCheckResult) string {
	var b strings.Builder

	name := profile.AgentName
	if name == "" {
		name = profile.FullName
	}
	if name != "" {
		fmt.Fprintf(&b, "Xin chào %s,\n\n", name)
	}

	b.WriteString("Giá vé của chuyến bay bạn đang theo dõi đã giảm.\n")
	fmt.Fprintf(&b, "Hãng: %s\n", alert.Airline)
	fmt.Fprintf(&b, "Hành trình: %s\n", alert.Route)
	if alert.PNR != "" {
		fmt.Fprintf(&b, "Mã đặt chỗ: %s\n", alert.PNR)
	}
	if alert.OldPrice != nil {
		fmt.Fprintf(&b, "Giá cũ: %s KRW\n", FormatAmount(*alert.OldPrice))
	}
	fmt.Fprintf(&b, "Giá mới: %s KRW\n", FormatAmount(alert.NewPrice))
	fmt.Fprintf(&b, "Chênh lệch: %s KRW\n", FormatAmount(alert.PriceDifference))

	return b.String()
}

// FormatAmount groups digits by thousands, e.g. 1249600 -> "1,249,600"
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}
