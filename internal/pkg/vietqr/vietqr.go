// Package vietqr builds VietQR bank transfer payloads and quick-link images.
package vietqr

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	QuickLinkBase     = "https://img.vietqr.io/image"
	DefaultTemplate   = "compact2"
	MaxDescriptionLen = 25
	descriptionPrefix = "NERD"
)

var (
	ErrMissingAccount     = errors.New("vietqr: bank id and account number are required")
	ErrInvalidAmount      = errors.New("vietqr: amount must be positive")
	ErrInvalidDescription = errors.New("vietqr: description must be 1-25 ascii letters, digits or spaces")
)

var descriptionPattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

// Payload is everything a banking app needs to prefill a transfer.
type Payload struct {
	BankID      string `json:"bank_id"`
	AccountNo   string `json:"account_no"`
	AccountName string `json:"account_name"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Template    string `json:"-"`
}

// TransferDescription is the memo customers put on the transfer so staff can
// match it to a booking.
func TransferDescription(bookingCode string) string {
	desc := descriptionPrefix + " " + strings.ToUpper(strings.TrimSpace(bookingCode))
	if len(desc) > MaxDescriptionLen {
		desc = desc[:MaxDescriptionLen]
	}
	return desc
}

func (p Payload) Validate() error {
	if strings.TrimSpace(p.BankID) == "" || strings.TrimSpace(p.AccountNo) == "" {
		return ErrMissingAccount
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(p.Description) == 0 || len(p.Description) > MaxDescriptionLen || !descriptionPattern.MatchString(p.Description) {
		return ErrInvalidDescription
	}
	return nil
}

// QuickLinkURL renders the img.vietqr.io link for the payload.
func (p Payload) QuickLinkURL() string {
	template := p.Template
	if template == "" {
		template = DefaultTemplate
	}

	q := url.Values{}
	q.Set("amount", strconv.FormatInt(p.Amount, 10))
	q.Set("addInfo", p.Description)
	if p.AccountName != "" {
		q.Set("accountName", p.AccountName)
	}

	return fmt.Sprintf("%s/%s-%s-%s.png?%s",
		QuickLinkBase,
		url.PathEscape(p.BankID),
		url.PathEscape(p.AccountNo),
		url.PathEscape(template),
		q.Encode(),
	)
}
