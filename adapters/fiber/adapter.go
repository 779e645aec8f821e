// Package fiber exposes the lifecycle engine over HTTP using gofiber.
package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/nakeddeadlines/deadline"
)

type Adapter struct {
	app     *fiber.App
	handler deadline.TimerHandler
	limiter *tokenLimiter
}

var _ deadline.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{
		app:     app,
		limiter: newTokenLimiter(),
	}
}

func (a *Adapter) RegisterRoutes(handler deadline.TimerHandler, basePath string) error {
	a.handler = handler

	api := a.app.Group(basePath)

	// Session routes
	api.Post("/session", a.signin)
	api.Get("/session", a.requireAuth, a.session)
	api.Delete("/session", a.requireAuth, a.signout)

	// Timer routes (owner session required)
	api.Get("/timer", a.requireAuth, a.getTimer)
	api.Post("/timer", a.requireAuth, a.createTimer)
	api.Delete("/timer", a.requireAuth, a.deleteTimer)

	// Confirmation routes: the token in the path is the whole
	// authorization mechanism, so lookups are rate limited.
	api.Get("/confirm/:token", a.rateLimit, a.lookupToken)
	api.Put("/confirm/:token", a.rateLimit, a.verify)

	// Exposure and escape
	api.Post("/expose", a.requireAuth, a.expose)
	api.Post("/escape", a.requireAuth, a.escape)

	// Payments
	api.Post("/payments/checkout", a.requireAuth, a.checkout)
	api.Get("/payments/status", a.requireAuth, a.paymentStatus)
	api.Delete("/payments/status", a.requireAuth, a.clearPaymentStatus)
	api.Get("/payments/success", a.paymentSuccess)
	api.Get("/payments/cancel", a.paymentCancel)

	return nil
}
