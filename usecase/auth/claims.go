package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fastygo/todo/domain"
)

// DecodeToken reads the claims of a bearer token WITHOUT verifying its
// signature. The result is only good for display (who is signed in); the
// backend stays the sole authority on access control and rejects forged or
// expired tokens on every call.
func DecodeToken(token string) (domain.Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[1] == "" {
		return nil, domain.NewError(domain.ErrCodeDecode, "token is not a three-part bearer token")
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeDecode, "token payload is not base64", err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var claims domain.Claims
	if err := dec.Decode(&claims); err != nil {
		return nil, domain.WrapError(domain.ErrCodeDecode, "token payload is not a JSON object", err)
	}
	if claims == nil {
		return nil, domain.NewError(domain.ErrCodeDecode, "token payload is not a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, domain.NewError(domain.ErrCodeDecode, "token payload has trailing data")
	}
	return claims, nil
}

// decodeSegment accepts JWT base64url segments, padded or not, and, for
// tokens produced by btoa-style encoders, standard base64.
func decodeSegment(seg string) ([]byte, error) {
	out, err := jwt.DecodeSegment(strings.TrimRight(seg, "="))
	if err == nil {
		return out, nil
	}
	if std, stdErr := base64.StdEncoding.DecodeString(seg); stdErr == nil {
		return std, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(seg); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
