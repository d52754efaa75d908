package ses

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// smtpMessage is the fixed string signed to derive an SMTP password from an
// IAM secret access key, per the documented SES SMTP credential scheme.
const smtpMessage = "SendRawEmail"

// smtpVersion prefixes the signature before base64 encoding.
const smtpVersion = 0x04

// SMTPPassword derives the SES SMTP password for an IAM secret access key:
//
//	base64(version || HMAC-SHA256(secretKey, "SendRawEmail"))
//
// The derivation is a pure function; the same secret key always yields the
// same password.
func SMTPPassword(secretAccessKey string) string {
	mac := hmac.New(sha256.New, []byte(secretAccessKey))
	mac.Write([]byte(smtpMessage))
	signature := mac.Sum(nil)

	versioned := make([]byte, 0, len(signature)+1)
	versioned = append(versioned, smtpVersion)
	versioned = append(versioned, signature...)
	return base64.StdEncoding.EncodeToString(versioned)
}
