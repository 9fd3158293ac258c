package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signAdminToken(t *testing.T, secret, role string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, AdminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "front-desk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAdminJWT(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"disabled", "", "", http.StatusUnauthorized},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"empty bearer", "secret", "Bearer ", http.StatusUnauthorized},
		{"wrong secret", "secret", "Bearer " + signAdminToken(t, "other", AdminRole, jwt.SigningMethodHS256), http.StatusUnauthorized},
		{"wrong alg", "secret", "Bearer " + signAdminToken(t, "secret", AdminRole, jwt.SigningMethodHS512), http.StatusUnauthorized},
		{"not admin", "secret", "Bearer " + signAdminToken(t, "secret", "patient", jwt.SigningMethodHS256), http.StatusForbidden},
		{"valid", "secret", "Bearer " + signAdminToken(t, "secret", AdminRole, jwt.SigningMethodHS256), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got AdminClaims
			h := AdminJWT(tc.secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = AdminClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusOK && got.Subject != "front-desk" {
				t.Fatalf("claims not propagated: %+v", got)
			}
		})
	}
}
