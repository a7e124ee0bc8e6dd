package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_BothPlaceholderSyntaxes(t *testing.T) {
	vars := map[string]string{"customerName": "An", "bookingCode": "NS1"}

	assert.Equal(t, "Hi An, code NS1", Render("Hi {{customerName}}, code {bookingCode}", vars, false))
	assert.Equal(t, "An An", Render("{customerName} {{customerName}}", vars, false))
	assert.Equal(t, "keep {{unknown}}", Render("keep {{unknown}}", vars, false))
}

func TestRender_EscapesValues(t *testing.T) {
	vars := map[string]string{"customerName": `<script>alert("x")</script>`}

	out := Render("<p>{{customerName}}</p>", vars, true)
	assert.Equal(t, "<p>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</p>", out)

	assert.Equal(t, `<script>alert("x")</script>`, Render("{customerName}", vars, false))
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	assert.Len(t, defs, 5)
	for i := 1; i < len(defs); i++ {
		assert.Less(t, defs[i-1].Name, defs[i].Name)
	}

	def, ok := Lookup(TemplateBookingCancelled)
	assert.True(t, ok)
	assert.Contains(t, def.Variables, "cancelReason")

	_, ok = Lookup("newsletter")
	assert.False(t, ok)
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0 ₫", FormatVND(0))
	assert.Equal(t, "900 ₫", FormatVND(900))
	assert.Equal(t, "100.000 ₫", FormatVND(100000))
	assert.Equal(t, "1.234.567 ₫", FormatVND(1234567))
	assert.Equal(t, "-90.000 ₫", FormatVND(-90000))
}
