package cognito

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type SignUpResult struct {
	UserConfirmed bool   `json:"UserConfirmed"`
	UserSub       string `json:"UserSub"`
}

// newIdentityClient tạo client cognito-idp. SignUp không cần ký SigV4 nên dùng credentials ẩn danh.
func newIdentityClient(cfg Config) *cip.Client {
	return cip.New(cip.Options{
		Region:      cfg.Region,
		Credentials: aws.AnonymousCredentials{},
		Retryer:     aws.NopRetryer{},
		HTTPClient:  &http.Client{Timeout: cfg.timeout()},
	}, func(o *cip.Options) {
		if cfg.IdentityURL != "" {
			o.BaseEndpoint = aws.String(cfg.IdentityURL)
		}
	})
}

// SignUp tạo user mới trong user pool.
func (c *Client) SignUp(ctx context.Context, username, password, email string) (*SignUpResult, error) {
	in := &cip.SignUpInput{
		ClientId: aws.String(c.cfg.ClientID),
		Username: aws.String(username),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	}
	if hash := SecretHash(username, c.cfg.ClientID, c.cfg.ClientSecret); hash != "" {
		in.SecretHash = aws.String(hash)
	}

	out, err := c.idp.SignUp(ctx, in)
	if err != nil {
		return nil, signUpError(err)
	}
	return &SignUpResult{
		UserConfirmed: out.UserConfirmed,
		UserSub:       aws.ToString(out.UserSub),
	}, nil
}

func signUpError(err error) error {
	var exists *types.UsernameExistsException
	if errors.As(err, &exists) {
		return ErrUsernameExists
	}
	var badPassword *types.InvalidPasswordException
	if errors.As(err, &badPassword) {
		return fmt.Errorf("%w: %s", ErrSignUpRejected, badPassword.ErrorMessage())
	}
	var badParam *types.InvalidParameterException
	if errors.As(err, &badParam) {
		return fmt.Errorf("%w: %s", ErrSignUpRejected, badParam.ErrorMessage())
	}
	return fmt.Errorf("%w: %v", ErrSignUpFailed, err)
}

// SecretHash = base64(HMAC-SHA256(clientSecret, username + clientID)).
func SecretHash(username, clientID, clientSecret string) string {
	if clientSecret == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
