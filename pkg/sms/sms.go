package sms

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender dispatches a text message to an E.164 number. The OTP store only
// sees this interface, so tests run with a recorder and dev with a logger.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender posts to the Twilio Messages API. No SMS SDK is pulled in:
// the API is a single form-encoded POST.
type TwilioSender struct {
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", t.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}

// LogSender prints messages instead of delivering them; used in development
// so the OTP flow is exercisable without a Twilio account.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, body string) error {
	log.Printf("SMS to %s: %s", to, body)
	return nil
}

var (
	_ Sender = (*TwilioSender)(nil)
	_ Sender = LogSender{}
)
