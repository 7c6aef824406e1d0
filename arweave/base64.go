package arweave

import "encoding/base64"

// Gateways encode byte strings with the URL- and filename-safe base64
// alphabet, unpadded.
var b64 = base64.RawURLEncoding

// DecodeBase64URL decodes an unpadded base64url string to raw bytes.
func DecodeBase64URL(s string) ([]byte, error) {
	return b64.DecodeString(s)
}

// EncodeBase64URL encodes raw bytes to an unpadded base64url string.
func EncodeBase64URL(b []byte) string {
	return b64.EncodeToString(b)
}
