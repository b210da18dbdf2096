// AngelaMos | 2026
// metrics.go

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess       = "success"
	outcomeUserNotFound  = "user_not_found"
	outcomeWrongPassword = "wrong_password"
	outcomeInvalid       = "invalid_request"
	outcomeEmailTaken    = "email_taken"
	outcomeRejected      = "rejected"
	outcomeReuse         = "reuse"
	outcomeError         = "error"
)

type authMetrics struct {
	logins    *prometheus.CounterVec
	signups   *prometheus.CounterVec
	refreshes *prometheus.CounterVec
}

func newAuthMetrics(reg prometheus.Registerer) *authMetrics {
	factory := promauto.With(reg)

	return &authMetrics{
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		signups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_signup_attempts_total",
			Help: "Signup attempts by outcome.",
		}, []string{"outcome"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_refreshes_total",
			Help: "Refresh token rotations by outcome.",
		}, []string{"outcome"}),
	}
}
