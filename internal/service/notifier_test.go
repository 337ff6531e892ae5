package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pe-collective-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendGridNotifier_NotifyRegistration(t *testing.T) {
	ctx := context.Background()
	sub := &domain.Submission{FirstName: "Test", LastName: "User", Email: "test@example.com"}
	row := sub.Row(fixedClock())

	t.Run("Success", func(t *testing.T) {
		var got map[string]any
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3/mail/send", r.URL.Path)
			auth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		n := NewSendGridNotifier("SG.test", srv.URL, "noreply@pecollective.com", "PE Collective", "team@pecollective.com")
		require.NoError(t, n.NotifyRegistration(ctx, sub, row))

		assert.Equal(t, "Bearer SG.test", auth)
		assert.Equal(t, "New PE Collective member: Test User", got["subject"])
		personalizations := got["personalizations"].([]any)
		to := personalizations[0].(map[string]any)["to"].([]any)
		assert.Equal(t, "team@pecollective.com", to[0].(map[string]any)["email"])
	})

	t.Run("Error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
		}))
		defer srv.Close()

		n := NewSendGridNotifier("SG.bad", srv.URL, "noreply@pecollective.com", "PE Collective", "team@pecollective.com")
		err := n.NotifyRegistration(ctx, sub, row)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})
}
