package cryptox

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPEnrollment is the result of minting a new TOTP secret.
type TOTPEnrollment struct {
	Secret string
	URL    string
}

// GenerateTOTP mints a 6-digit SHA1 TOTP secret with a 30 second period.
func GenerateTOTP(issuer, account string) (TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("cryptox: generate TOTP: %w", err)
	}
	return TOTPEnrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// TOTPCode returns the code for secret at t.
func TOTPCode(secret string, t time.Time) (string, error) {
	code, err := totp.GenerateCode(secret, t)
	if err != nil {
		return "", fmt.Errorf("cryptox: TOTP code: %w", err)
	}
	return code, nil
}

// ValidateTOTP reports whether code is valid for secret right now.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
