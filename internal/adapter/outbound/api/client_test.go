package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/adapter/outbound/memory"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/domain/auth"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	transport := NewTransport(memory.NewTokenStoreWithToken("tok"), WithBaseURL(server.URL))
	return NewClient(transport)
}

func TestClientLogin(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody auth.Credentials

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":        map[string]string{"id": "u1", "email": "ana@example.com", "role": "ADMIN"},
			"accessToken": "tok-1",
		})
	})

	res, err := client.Login(context.Background(), auth.Credentials{
		Email:    "ana@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/auth/login" || gotMethod != http.MethodPost {
		t.Errorf("expected POST /auth/login, got %s %s", gotMethod, gotPath)
	}
	if gotBody.Email != "ana@example.com" {
		t.Errorf("expected credentials in body, got %+v", gotBody)
	}
	if res.AccessToken != "tok-1" {
		t.Errorf("expected access token, got %q", res.AccessToken)
	}
	if res.User.Role != auth.RoleAdmin {
		t.Errorf("expected ADMIN role, got %q", res.User.Role)
	}
}

func TestClientCartEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{method: r.Method, path: r.URL.Path})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"cart": map[string]any{"cartId": "c1", "itemCount": 1, "total": 9.5},
		})
	})

	ctx := context.Background()
	if _, err := client.GetCart(ctx); err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if _, err := client.AddItem(ctx, "p1", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := client.UpdateItem(ctx, "i1", 3); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if _, err := client.RemoveItem(ctx, "i1"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	snap, err := client.ClearCart(ctx)
	if err != nil {
		t.Fatalf("ClearCart: %v", err)
	}
	if snap.ID != "c1" {
		t.Errorf("expected cart envelope to be unwrapped, got %+v", snap)
	}

	want := []call{
		{method: http.MethodGet, path: "/cart"},
		{method: http.MethodPost, path: "/cart/items"},
		{method: http.MethodPut, path: "/cart/items/i1"},
		{method: http.MethodDelete, path: "/cart/items/i1"},
		{method: http.MethodDelete, path: "/cart"},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(calls))
	}
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("call %d: expected %+v, got %+v", i, w, calls[i])
		}
	}
}
