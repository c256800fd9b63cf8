package security

import (
	"github.com/pquerna/otp/totp"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "GenAdmin"

// GenerateTOTPSecret creates a new TOTP secret for an operator.
// It returns the base32 secret and the otpauth provisioning URL.
func GenerateTOTPSecret(username string) (secret, url string, err error) {
	key, errGenerate := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: username,
	})
	if errGenerate != nil {
		return "", "", errGenerate
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTPCode reports whether code is valid for the stored secret.
func ValidateTOTPCode(secret, code string) bool {
	if secret == "" || code == "" {
		return false
	}
	return totp.Validate(code, secret)
}
