package service

import "github.com/prometheus/client_golang/prometheus"

var (
	loginSuccessTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "auth_login_success_total", Help: "Successful logins"})
	loginFailureTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "auth_login_failure_total", Help: "Failed login attempts"})
	accountLockoutTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "auth_account_lockout_total", Help: "Accounts deactivated by lockout"})
	resetRequestTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "auth_reset_request_total", Help: "Password reset requests"})
	resetConsumeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "auth_reset_consume_total", Help: "Reset tokens consumed"})
)

func init() {
	prometheus.MustRegister(
		loginSuccessTotal, loginFailureTotal, accountLockoutTotal,
		resetRequestTotal, resetConsumeTotal,
	)
}
