package sms

import (
	"context"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

// Twilio Verify APIのクライアント。
// 認証情報が無ければ無効のまま動く（DB保存コードにフォールバック）。
type TwilioVerifier struct {
	client     *twilio.RestClient
	serviceSID string
}

func NewTwilioVerifier(accountSID string, authToken string, serviceSID string) *TwilioVerifier {
	if accountSID == "" || authToken == "" || serviceSID == "" {
		return &TwilioVerifier{}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioVerifier{client: client, serviceSID: serviceSID}
}

func (v *TwilioVerifier) Enabled() bool {
	return v.client != nil
}

func (v *TwilioVerifier) StartVerification(ctx context.Context, mobile string) error {
	params := &verify.CreateVerificationParams{}
	params.SetTo(mobile)
	params.SetChannel("sms")

	_, err := v.client.VerifyV2.CreateVerification(v.serviceSID, params)
	return err
}

func (v *TwilioVerifier) CheckVerification(ctx context.Context, mobile string, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(mobile)
	params.SetCode(code)

	resp, err := v.client.VerifyV2.CreateVerificationCheck(v.serviceSID, params)
	if err != nil {
		return false, err
	}
	return resp.Status != nil && *resp.Status == "approved", nil
}
