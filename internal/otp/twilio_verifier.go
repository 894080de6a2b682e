package otp

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

// TwilioVerifier delegates code generation and checking to the Twilio Verify
// API. Codes never touch this process: Twilio generates, delivers, and
// retires them, so Issue returns an empty string and Consume is a no-op.
type TwilioVerifier struct {
	client     *twilio.RestClient
	serviceSID string
}

// NewTwilioVerifier builds the production OTP backend.
func NewTwilioVerifier(accountSID, authToken, serviceSID string) *TwilioVerifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioVerifier{client: client, serviceSID: serviceSID}
}

// Issue asks Twilio to send a verification code over SMS.
func (v *TwilioVerifier) Issue(_ context.Context, phone string) (string, error) {
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")
	if _, err := v.client.VerifyV2.CreateVerification(v.serviceSID, params); err != nil {
		return "", fmt.Errorf("twilio send verification: %w", err)
	}
	return "", nil
}

// Verify checks the candidate code with Twilio. Denied and not-found checks
// both report false.
func (v *TwilioVerifier) Verify(_ context.Context, phone, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)
	check, err := v.client.VerifyV2.CreateVerificationCheck(v.serviceSID, params)
	if err != nil {
		return false, fmt.Errorf("twilio check verification: %w", err)
	}
	return check.Status != nil && *check.Status == "approved", nil
}

// Consume is a no-op: Twilio retires a code once it has been checked.
func (v *TwilioVerifier) Consume(context.Context, string) error {
	return nil
}
