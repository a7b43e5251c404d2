// Package cognitotest giả lập một user pool: sinh khoá RSA, phát JWKS và ký token.
package cognitotest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/biosecret/go-todo/cognito"
	"github.com/golang-jwt/jwt/v5"
)

type Issuer struct {
	Kid       string
	Key       *rsa.PrivateKey
	IssuerURL string
	ClientID  string

	tb testing.TB
}

func NewIssuer(t testing.TB, issuerURL, clientID string) *Issuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return &Issuer{Kid: "test-kid", Key: key, IssuerURL: issuerURL, ClientID: clientID, tb: t}
}

// JWKS trả về tài liệu JWKS chứa public key của issuer.
func (i *Issuer) JWKS() []byte {
	e := big.NewInt(int64(i.Key.PublicKey.E)).Bytes()
	doc := map[string]any{
		"keys": []map[string]string{{
			"kid": i.Kid,
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(i.Key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(e),
		}},
	}
	data, _ := json.Marshal(doc)
	return data
}

func (i *Issuer) KeySet() *cognito.KeySet {
	i.tb.Helper()
	ks, err := cognito.ParseKeySet(i.JWKS())
	if err != nil {
		i.tb.Fatalf("parse jwks: %v", err)
	}
	return ks
}

func (i *Issuer) Verifier() *cognito.Verifier {
	return cognito.NewVerifier(i.KeySet(), i.IssuerURL, i.ClientID)
}

// IDToken ký một ID token hợp lệ; mutate cho phép sửa claims trước khi ký.
func (i *Issuer) IDToken(t testing.TB, sub, username, email string, mutate ...func(jwt.MapClaims)) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":              sub,
		"aud":              i.ClientID,
		"iss":              i.IssuerURL,
		"iat":              now.Unix(),
		"exp":              now.Add(time.Hour).Unix(),
		"token_use":        "id",
		"cognito:username": username,
		"email":            email,
	}
	for _, m := range mutate {
		m(claims)
	}
	return i.Sign(t, claims)
}

// AccessToken giống access token của Cognito: không có aud và email.
func (i *Issuer) AccessToken(t testing.TB, sub, username string, mutate ...func(jwt.MapClaims)) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       sub,
		"iss":       i.IssuerURL,
		"iat":       now.Unix(),
		"exp":       now.Add(time.Hour).Unix(),
		"token_use": "access",
		"client_id": i.ClientID,
		"username":  username,
		"scope":     "openid email profile",
	}
	for _, m := range mutate {
		m(claims)
	}
	return i.Sign(t, claims)
}

func (i *Issuer) Sign(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = i.Kid
	signed, err := token.SignedString(i.Key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
