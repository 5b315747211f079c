package banksdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session is an authenticated handle to the bank service. It carries the
// opaque session token returned by Login.
type Session struct {
	client *SDKClient
	token  string
}

// Token returns the raw session token.
func (s *Session) Token() string {
	return s.token
}

// Transfer moves amount from fromAccount to toAccount. The amount is a
// decimal string such as "100.00", and pin is the source account's PIN.
func (s *Session) Transfer(ctx context.Context, fromAccount, toAccount, amount, pin string) (*TransferResponse, error) {
	form := url.Values{}
	form.Set("from_account", fromAccount)
	form.Set("to_account", toAccount)
	form.Set("amount", amount)
	form.Set("pin", pin)

	resp, err := s.client.doForm(ctx, http.MethodPost, "/transfer", form, s.token)
	if err != nil {
		return nil, err
	}

	var transferResp TransferResponse
	if err := decodeEnvelope(resp, &transferResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &transferResp, nil
}

// Account returns the caller's account number and current balance.
func (s *Session) Account(ctx context.Context) (*AccountResponse, error) {
	resp, err := s.client.doForm(ctx, http.MethodGet, "/account", nil, s.token)
	if err != nil {
		return nil, err
	}

	var accountResp AccountResponse
	if err := decodeEnvelope(resp, &accountResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &accountResp, nil
}

// Logout invalidates the session token. Logging out an already-expired or
// unknown token succeeds.
func (s *Session) Logout(ctx context.Context) error {
	form := url.Values{}
	form.Set("session", s.token)

	resp, err := s.client.doForm(ctx, http.MethodPost, "/logout", form, s.token)
	if err != nil {
		return err
	}

	var env Envelope
	return decodeEnvelope(resp, &env, http.StatusOK)
}
