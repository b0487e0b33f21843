package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/clearance-booking/internal/config"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
	"github.com/BruksfildServices01/clearance-booking/internal/metrics"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
	ucBooking "github.com/BruksfildServices01/clearance-booking/internal/usecase/booking"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Dependencies{
		Config: &config.Config{JWTSecret: "secret", Timezone: "Europe/London"},
		Bookings: ucBooking.Deps{
			Store:    lifecycle.NewStore(lifecycle.WithScheduler(lifecycle.NewManualScheduler())),
			Resolver: permission.NewResolver(permission.DefaultTable()),
		},
		Metrics: metrics.New().Handler(),
	})
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := newRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodGet, path: "/health", want: http.StatusOK},
		{method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/bookings", want: http.StatusUnauthorized},
		{method: http.MethodPost, path: "/api/bookings/b-1/payments", want: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/audit-logs", want: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/unknown", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
