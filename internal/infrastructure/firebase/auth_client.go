package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient verifies Firebase ID tokens.
type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyToken returns the token's uid and its custom claims.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, map[string]interface{}, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", nil, err
	}
	return result.UID, result.Claims, nil
}
