package middleware

import (
	"net/http"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/topmart/Investment-Engine-Backend/internal/api/response"
)

// TriggerAuth gates the operational sweep-trigger endpoints. The caller
// presents a fernet token (minted with cmd/sweeptoken from the shared key)
// in X-Sweep-Token; the token's signature and TTL are checked, so a leaked
// token expires on its own. When no key is configured the endpoints are
// disabled outright.
type TriggerAuth struct {
	keys []*fernet.Key
	ttl  time.Duration
}

// NewTriggerAuth parses the configured fernet key. An empty key yields a
// middleware that rejects every request.
func NewTriggerAuth(key string, ttl time.Duration) (*TriggerAuth, error) {
	t := &TriggerAuth{ttl: ttl}

	if key == "" {
		return t, nil
	}

	k, err := fernet.DecodeKey(key)
	if err != nil {
		return nil, err
	}
	t.keys = []*fernet.Key{k}

	return t, nil
}

// Handler verifies the trigger token before passing the request on.
func (t *TriggerAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(t.keys) == 0 {
			response.RespondError(w, http.StatusServiceUnavailable, "unauthorized", "sweep triggers are not configured", nil)
			return
		}

		token := r.Header.Get("X-Sweep-Token")
		if token == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "missing sweep token", nil)
			return
		}

		if msg := fernet.VerifyAndDecrypt([]byte(token), t.ttl, t.keys); msg == nil {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired sweep token", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
