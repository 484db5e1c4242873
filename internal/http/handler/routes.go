package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"contentproof/docs"
	"contentproof/internal/chain"
	"contentproof/internal/http/middleware"
	"contentproof/internal/repository"
	"contentproof/internal/service"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB          Pinger
	Auth        service.AuthService
	Tokens      middleware.TokenVerifier
	Limiter     middleware.Allower
	Controllers ControllerSource
	Records     repository.VerificationRepository
	Chain       chain.Status
	// Gatherer backs /metrics; nil leaves the route unregistered.
	Gatherer       prometheus.Gatherer
	MaxUploadBytes int64
	Log            zerolog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Root())
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	api := app.Group("/api")
	api.Get("/chain/status", ChainStatus(d.Chain))

	authGroup := api.Group("/auth")
	if d.Limiter != nil {
		authGroup.Use(middleware.RateLimit(d.Limiter))
	}
	authGroup.Post("/signup", Signup(d.Auth, d.Log))
	authGroup.Post("/signin", Signin(d.Auth, d.Log))

	requireAuth := middleware.RequireAuth(d.Tokens)
	api.Get("/me", requireAuth, Me())

	v := api.Group("/verify", requireAuth)
	v.Post("/text", VerifyText(d.Controllers, d.Log))
	v.Post("/file", VerifyFile(d.Controllers, d.MaxUploadBytes, d.Log))
	v.Post("/hash", VerifyHash(d.Controllers, d.Log))
	v.Get("/status", VerifyStatus(d.Controllers))
	v.Get("/history", VerifyHistory(d.Controllers, d.Log))
	v.Get("/records", ListRecords(d.Records, d.Log))
}
