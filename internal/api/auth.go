package api

import "context"

type tokenResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

// NewEphemeralAccount creates an anonymous account and returns its temporary
// token. The only unauthenticated call in the API.
func (c *Client) NewEphemeralAccount(ctx context.Context) (string, error) {
	var resp tokenResponse
	if err := c.get(ctx, pathNewEphemeralAccount, "", nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register attaches an email address to the ephemeral account. The server
// sends a verification code to the address.
func (c *Client) Register(ctx context.Context, tempToken, email string) error {
	return c.post(ctx, pathRegister, tempToken, registerRequest{Email: email}, nil)
}

// Verify exchanges the emailed code for a durable bearer token.
func (c *Client) Verify(ctx context.Context, tempToken, email, code string) (string, error) {
	var resp tokenResponse
	if err := c.post(ctx, pathVerify, tempToken, verifyRequest{Code: code, Email: email}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
