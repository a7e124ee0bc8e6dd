package vietqr

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferDescription(t *testing.T) {
	assert.Equal(t, "NERD NS7K2QXA", TransferDescription(" ns7k2qxa "))
	assert.Len(t, TransferDescription(strings.Repeat("A", 40)), MaxDescriptionLen)
}

func TestQuickLinkURL(t *testing.T) {
	p := Payload{
		BankID:      "MB",
		AccountNo:   "0123456789",
		AccountName: "NERD SOCIETY",
		Amount:      100000,
		Description: "NERD NS7K2QXA",
	}
	require.NoError(t, p.Validate())

	raw := p.QuickLinkURL()
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "img.vietqr.io", u.Host)
	assert.Equal(t, "/image/MB-0123456789-compact2.png", u.Path)
	assert.Equal(t, "100000", u.Query().Get("amount"))
	assert.Equal(t, "NERD NS7K2QXA", u.Query().Get("addInfo"))
	assert.Equal(t, "NERD SOCIETY", u.Query().Get("accountName"))
}

func TestValidate(t *testing.T) {
	base := Payload{BankID: "MB", AccountNo: "1", Amount: 1, Description: "NERD X"}

	missing := base
	missing.AccountNo = ""
	assert.ErrorIs(t, missing.Validate(), ErrMissingAccount)

	zero := base
	zero.Amount = 0
	assert.ErrorIs(t, zero.Validate(), ErrInvalidAmount)

	accents := base
	accents.Description = "Đặt phòng"
	assert.ErrorIs(t, accents.Validate(), ErrInvalidDescription)
}
