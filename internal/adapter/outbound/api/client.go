package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/domain/auth"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/domain/cart"
)

// Client exposes the backend endpoints as typed calls over a Transport.
type Client struct {
	transport *Transport
}

// NewClient creates a Client over the given transport.
func NewClient(t *Transport) *Client {
	return &Client{transport: t}
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	User        auth.User `json:"user"`
	AccessToken string    `json:"accessToken"`
}

type userEnvelope struct {
	User auth.User `json:"user"`
}

type cartEnvelope struct {
	Cart cart.Cart `json:"cart"`
}

// Me resolves the current session from the persisted token.
func (c *Client) Me(ctx context.Context) (*auth.User, error) {
	var env userEnvelope
	if err := c.transport.Do(ctx, http.MethodGet, "/auth/me", nil, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, creds auth.Credentials) (*AuthResult, error) {
	var res AuthResult
	if err := c.transport.Do(ctx, http.MethodPost, "/auth/login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and authenticates in one step.
func (c *Client) Register(ctx context.Context, reg auth.Registration) (*AuthResult, error) {
	var res AuthResult
	if err := c.transport.Do(ctx, http.MethodPost, "/auth/register", reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.transport.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// GetCart fetches the current cart snapshot.
func (c *Client) GetCart(ctx context.Context) (*cart.Cart, error) {
	var env cartEnvelope
	if err := c.transport.Do(ctx, http.MethodGet, "/cart", nil, &env); err != nil {
		return nil, err
	}
	return &env.Cart, nil
}

// AddItem adds a product line to the cart and returns the new snapshot.
func (c *Client) AddItem(ctx context.Context, productID string, quantity int) (*cart.Cart, error) {
	body := struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	var env cartEnvelope
	if err := c.transport.Do(ctx, http.MethodPost, "/cart/items", body, &env); err != nil {
		return nil, err
	}
	return &env.Cart, nil
}

// UpdateItem replaces the quantity of a cart line and returns the new snapshot.
func (c *Client) UpdateItem(ctx context.Context, itemID string, quantity int) (*cart.Cart, error) {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	var env cartEnvelope
	if err := c.transport.Do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(itemID), body, &env); err != nil {
		return nil, err
	}
	return &env.Cart, nil
}

// RemoveItem deletes a cart line and returns the new snapshot.
func (c *Client) RemoveItem(ctx context.Context, itemID string) (*cart.Cart, error) {
	var env cartEnvelope
	if err := c.transport.Do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(itemID), nil, &env); err != nil {
		return nil, err
	}
	return &env.Cart, nil
}

// ClearCart empties the cart and returns the (empty) snapshot.
func (c *Client) ClearCart(ctx context.Context) (*cart.Cart, error) {
	var env cartEnvelope
	if err := c.transport.Do(ctx, http.MethodDelete, "/cart", nil, &env); err != nil {
		return nil, err
	}
	return &env.Cart, nil
}
