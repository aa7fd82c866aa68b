package api

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// tokenGate hashes a configured bearer token once at boot (if non-empty)
// and compares it with bcrypt on every request — the module's one
// security-sensitive string comparison, following the teacher's
// apiAuthMiddleware/syncAuthMiddleware split but with the hashed
// comparison the plaintext-token teacher version never needed.
type tokenGate struct {
	hash []byte // nil means the gate is open (token not configured)
}

func newTokenGate(token string) (*tokenGate, error) {
	if token == "" {
		return &tokenGate{}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &tokenGate{hash: hash}, nil
}

func (g *tokenGate) allow(r *http.Request) bool {
	if g == nil || g.hash == nil {
		return true
	}
	tok := bearerToken(r)
	if tok == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(g.hash, []byte(tok)) == nil
}

// bearerToken reads the module's non-standard "Authentication: Bearer
// <token>" header — no "Authorization" fallback, per operator policy.
func bearerToken(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authentication"))
	if v == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(v, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(v, prefix))
}

func (a *API) requireAPIToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.apiGate.allow(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) requireReplicationToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.replicationGate.allow(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
