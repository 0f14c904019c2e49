package security

import "encoding/base64"

// EncodePassword applies the reversible encoding the admin tooling expects.
// This is deliberately not a hash: the stored value must decode back to the
// original secret. Empty input stays empty so optional passwords are stored
// as absent.
func EncodePassword(plain string) string {
	if plain == "" {
		return ""
	}

	return base64.StdEncoding.EncodeToString([]byte(plain))
}

// DecodePassword reverses EncodePassword.
func DecodePassword(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)

	if err != nil {
		return "", err
	}

	return string(raw), nil
}
