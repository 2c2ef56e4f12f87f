package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

func doRequest(mw echo.MiddlewareFunc, setup func(echo.Context)) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = h(c)
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	rec := doRequest(RequireRole("OWNER", "MANAGER"), func(c echo.Context) {
		c.Set("role", "MANAGER")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejects(t *testing.T) {
	cases := []struct {
		name string
		role interface{}
	}{
		{"wrong role", "GUEST"},
		{"missing role", nil},
		{"non-string role", 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(RequireRole("OWNER"), func(c echo.Context) {
				if tc.role != nil {
					c.Set("role", tc.role)
				}
			})
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestJWTAuthRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := utils.NewAccessToken(secret, 7, "OWNER", 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var userID, role interface{}
	h := JWTAuth(secret)(func(c echo.Context) error {
		userID = c.Get("user_id")
		role = c.Get("role")
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), userID, "numeric claims decode as float64")
	assert.Equal(t, "OWNER", role)
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	rec := doRequest(JWTAuth("secret"), func(c echo.Context) {
		c.Request().Header.Set("Authorization", "Bearer not-a-jwt")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(JWTAuth("secret"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/restaurants/1/bookings", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/restaurants/:id/bookings")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	assert.Equal(t, "rl:ip:10.0.0.9", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.0.0.9:route:POST /v1/restaurants/:id/bookings", buildRateKey(cfg, c))

	// Authenticated staff key on the account id from the JWT claim.
	c.Set("user_id", float64(12))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:12", buildRateKey(cfg, c))
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"items":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)

	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}
