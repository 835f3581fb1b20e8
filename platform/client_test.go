package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRetrieveExperience(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/experiences/exp_1": `{"id":"exp_1","name":"Community Hub","company":{"id":"biz_1","title":"Acme"}}`,
	})
	c := NewClient(srv.URL, "test-key")

	exp, err := c.RetrieveExperience(context.Background(), "exp_1")
	require.NoError(t, err)
	assert.Equal(t, "exp_1", exp.ID)
	assert.Equal(t, "Acme", exp.Company.Title)
}

func TestRetrieveUser(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/users/user_1": `{"id":"user_1","name":"Jordan","username":"jordan42"}`,
	})
	c := NewClient(srv.URL, "test-key")

	user, err := c.RetrieveUser(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Jordan", user.DisplayName())
}

func TestCheckAccess(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/experiences/exp_1/access/user_1": `{"has_access":true,"access_level":"admin"}`,
	})
	c := NewClient(srv.URL, "test-key")

	res, err := c.CheckAccess(context.Background(), "exp_1", "user_1")
	require.NoError(t, err)
	assert.True(t, res.HasAccess)
	assert.Equal(t, AccessLevelAdmin, res.AccessLevel)
}

func TestNonOKStatusIsAnError(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL, "test-key")

	_, err := c.RetrieveExperience(context.Background(), "exp_missing")
	assert.Error(t, err)
}

func TestAuthorizationHeaderSent(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/users/user_1": `{"id":"user_1"}`,
	})
	c := NewClient(srv.URL, "wrong-key")

	_, err := c.RetrieveUser(context.Background(), "user_1")
	assert.Error(t, err)
}

func TestDisplayNameFallsBackToUsername(t *testing.T) {
	u := User{Username: "jordan42"}
	assert.Equal(t, "jordan42", u.DisplayName())
}
