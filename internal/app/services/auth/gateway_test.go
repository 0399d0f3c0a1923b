package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateway_IsAuthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/isLogged":
			_, _ = w.Write([]byte("true"))
		case "/auth/loggedUser":
			_, _ = w.Write([]byte("user1"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	gw, err := NewGateway(srv.Client(), srv.URL, nil)
	require.NoError(t, err)

	logged, err := gw.IsAuthenticated(context.Background())
	require.NoError(t, err)
	require.True(t, logged)

	user, err := gw.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "user1", user)
}

func TestGateway_NotAuthenticatedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("false"))
	}))
	defer srv.Close()

	gw, err := NewGateway(srv.Client(), srv.URL, nil)
	require.NoError(t, err)

	logged, err := gw.IsAuthenticated(context.Background())
	require.NoError(t, err)
	require.False(t, logged)
}

func TestGateway_TransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	gw, err := NewGateway(srv.Client(), srv.URL, nil)
	require.NoError(t, err)

	_, err = gw.IsAuthenticated(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	// Unreachable endpoint behaves the same way.
	srv.Close()
	_, err = gw.IsAuthenticated(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = gw.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGateway_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not-a-bool"))
	}))
	defer srv.Close()

	gw, err := NewGateway(srv.Client(), srv.URL, nil)
	require.NoError(t, err)

	_, err = gw.IsAuthenticated(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGateway_Register(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/register" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw, err := NewGateway(srv.Client(), srv.URL, nil)
	require.NoError(t, err)

	require.NoError(t, gw.Register(context.Background(), "Full Name", "+79123456789", "user1", "pass1"))
	require.Contains(t, gotQuery, "username=user1")
	require.Contains(t, gotQuery, "fullName=Full+Name")
}
