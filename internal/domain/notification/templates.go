package notification

import (
	"html"
	"sort"
	"strings"
)

const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateBookingPending      = "booking_pending"
	TemplateBookingCancelled    = "booking_cancelled"
	TemplateCheckInReminder     = "checkin_reminder"
	TemplatePasswordReset       = "password_reset"
)

// Definition is a built-in template and the variables it may reference.
type Definition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Subject     string   `json:"subject"`
	Content     string   `json:"content"`
	Variables   []string `json:"variables"`
}

var bookingVariables = []string{
	"customerName", "bookingCode", "locationName", "locationAddress", "roomName",
	"serviceName", "date", "startTime", "endTime", "guestCount",
	"estimatedAmount", "depositAmount", "bookingUrl",
}

const layoutOpen = `<!doctype html>
<html>
<head><meta charset="utf-8"></head>
<body style="background:#f5f5f0;font-family:Arial,Helvetica,sans-serif;color:#222;">
<div style="max-width:640px;margin:20px auto;background:#fff;border:1px solid #e8e4d9;border-radius:8px;padding:24px;">
`

const layoutClose = `
<p style="color:#888;font-size:12px;margin-top:24px;">Nerd Society</p>
</div>
</body>
</html>`

const bookingTable = `
<table style="border-collapse:collapse;margin:16px 0;">
<tr><td style="padding:4px 12px 4px 0;">Mã đặt chỗ</td><td><strong>{{bookingCode}}</strong></td></tr>
<tr><td style="padding:4px 12px 4px 0;">Cơ sở</td><td>{{locationName}} - {{locationAddress}}</td></tr>
<tr><td style="padding:4px 12px 4px 0;">Phòng</td><td>{{roomName}} ({{serviceName}})</td></tr>
<tr><td style="padding:4px 12px 4px 0;">Thời gian</td><td>{{date}}, {{startTime}} - {{endTime}}</td></tr>
<tr><td style="padding:4px 12px 4px 0;">Số khách</td><td>{{guestCount}}</td></tr>
<tr><td style="padding:4px 12px 4px 0;">Tạm tính</td><td>{{estimatedAmount}}</td></tr>
<tr><td style="padding:4px 12px 4px 0;">Đặt cọc</td><td>{{depositAmount}}</td></tr>
</table>`

var definitions = map[string]Definition{
	TemplateBookingPending: {
		Name:        TemplateBookingPending,
		Description: "Sent right after a booking is created, before the deposit is confirmed",
		Subject:     "[Nerd Society] Đã nhận yêu cầu đặt chỗ {{bookingCode}}",
		Content: layoutOpen + `<h2>Chào {{customerName}},</h2>
<p>Nerd Society đã nhận được yêu cầu đặt chỗ của bạn. Vui lòng hoàn tất đặt cọc để giữ chỗ.</p>` + bookingTable + `
<p><a href="{{bookingUrl}}">Xem chi tiết đặt chỗ</a></p>` + layoutClose,
		Variables: bookingVariables,
	},
	TemplateBookingConfirmation: {
		Name:        TemplateBookingConfirmation,
		Description: "Sent when staff confirm the deposit or the customer chooses cash",
		Subject:     "[Nerd Society] Xác nhận đặt chỗ {{bookingCode}}",
		Content: layoutOpen + `<h2>Chào {{customerName}},</h2>
<p>Đặt chỗ của bạn đã được xác nhận. Hẹn gặp bạn tại Nerd Society!</p>` + bookingTable + `
<p><a href="{{bookingUrl}}">Xem chi tiết đặt chỗ</a></p>` + layoutClose,
		Variables: bookingVariables,
	},
	TemplateBookingCancelled: {
		Name:        TemplateBookingCancelled,
		Description: "Sent when a booking is cancelled by the customer or staff",
		Subject:     "[Nerd Society] Đặt chỗ {{bookingCode}} đã bị hủy",
		Content: layoutOpen + `<h2>Chào {{customerName}},</h2>
<p>Đặt chỗ <strong>{{bookingCode}}</strong> vào {{date}} lúc {{startTime}} đã bị hủy.</p>
<p>Lý do: {{cancelReason}}</p>` + layoutClose,
		Variables: append(append([]string{}, bookingVariables...), "cancelReason"),
	},
	TemplateCheckInReminder: {
		Name:        TemplateCheckInReminder,
		Description: "Sent shortly before a confirmed booking starts",
		Subject:     "[Nerd Society] Nhắc lịch check-in {{bookingCode}}",
		Content: layoutOpen + `<h2>Chào {{customerName}},</h2>
<p>Bạn có lịch tại <strong>{{locationName}}</strong> lúc {{startTime}} ngày {{date}}. Vui lòng đến đúng giờ để check-in.</p>` + bookingTable + layoutClose,
		Variables: bookingVariables,
	},
	TemplatePasswordReset: {
		Name:        TemplatePasswordReset,
		Description: "Password reset link",
		Subject:     "[Nerd Society] Đặt lại mật khẩu",
		Content: layoutOpen + `<h2>Chào {{customerName}},</h2>
<p>Nhấn vào liên kết dưới đây để đặt lại mật khẩu. Liên kết có hiệu lực trong thời gian ngắn.</p>
<p><a href="{{resetLink}}">Đặt lại mật khẩu</a></p>
<p>Nếu bạn không yêu cầu, hãy bỏ qua email này.</p>` + layoutClose,
		Variables: []string{"customerName", "resetLink"},
	},
}

func Lookup(name string) (Definition, bool) {
	d, ok := definitions[name]
	return d, ok
}

// Definitions returns the built-in templates sorted by name.
func Definitions() []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Render substitutes both {{name}} and {name} placeholders. Values are HTML
// escaped when escape is set. Unknown placeholders are left untouched.
func Render(tpl string, vars map[string]string, escape bool) string {
	if len(vars) == 0 {
		return tpl
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(vars)*4)
	for _, k := range keys {
		v := vars[k]
		if escape {
			v = html.EscapeString(v)
		}
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	for _, k := range keys {
		v := vars[k]
		if escape {
			v = html.EscapeString(v)
		}
		pairs = append(pairs, "{"+k+"}", v)
	}

	return strings.NewReplacer(pairs...).Replace(tpl)
}
