package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kikundi/chama/internal/api/service"
	"github.com/kikundi/chama/internal/api/store"
	"github.com/kikundi/chama/pkg/httpx"
	"github.com/kikundi/chama/pkg/jwtx"
	"github.com/kikundi/chama/pkg/slogx"

	_ "github.com/kikundi/chama/api/chama" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	TokenService        *service.TokenService
	UserService         *service.UserService
	GroupService        *service.GroupService
	ContributionService *service.ContributionService
	LoanService         *service.LoanService
	InvestmentService   *service.InvestmentService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	limits httpx.RateLimits,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		limits:       limits,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTokens()
	r.registerProfile()
	r.registerGroups()
	r.registerFinance()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Chama API
//	@version		0.1.0
//	@description	Savings group API: members pool contributions, borrow from the pool and record group investments.
//	@description
//	@description				Access tokens are short-lived EdDSA JWTs. Exchange the refresh token at /api/token/refresh/ when a request returns 401.
//
//	@contact.name				Kikundi Team
//	@contact.url				https://github.com/kikundi/chama
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with bearer authentication and a per-user rate limit.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.Authn(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

// staff is secured plus the staff check.
func (r *Router) staff(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.Authn(r.verifier),
		httpx.RequireStaff,
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerTokens() {
	h := &TokenHandler{
		TokenService: r.TokenService,
		UserService:  r.UserService,
	}

	// Password attempts are limited per IP and username to slow guessing
	r.Mux.Handle("POST /api/token/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleObtain),
			httpx.RateLimitByIPAndJSONField(r.limits.Strict, "username"),
		),
	)
	r.Mux.Handle("POST /api/register/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	// Every open tab refreshes on its own, so the refresh endpoint gets
	// more room than the password endpoints
	r.Mux.Handle("POST /api/token/refresh/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
	r.Mux.Handle("POST /api/token/blacklist/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleBlacklist),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{UserService: r.UserService}

	r.Mux.Handle("GET /api/me/{$}", r.secured(h.HandleMe, r.limits.Lenient))
}

func (r *Router) registerGroups() {
	h := &GroupsHandler{GroupService: r.GroupService}

	r.Mux.Handle("GET /api/groups/{$}", r.secured(h.HandleList, r.limits.Lenient))
	r.Mux.Handle("POST /api/groups/{$}", r.secured(h.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("GET /api/groups/{id}/{$}", r.secured(h.HandleGet, r.limits.Lenient))
	r.Mux.Handle("POST /api/groups/{id}/join/{$}", r.secured(h.HandleJoin, r.limits.Moderate))
	r.Mux.Handle("GET /api/groups/{id}/members/{$}", r.secured(h.HandleMembers, r.limits.Lenient))
}

func (r *Router) registerFinance() {
	contributions := &ContributionsHandler{ContributionService: r.ContributionService}
	loans := &LoansHandler{LoanService: r.LoanService}
	investments := &InvestmentsHandler{InvestmentService: r.InvestmentService}

	r.Mux.Handle("GET /api/groups/{id}/contributions/{$}", r.secured(contributions.HandleList, r.limits.Lenient))
	r.Mux.Handle("POST /api/contributions/{$}", r.secured(contributions.HandleCreate, r.limits.Moderate))

	r.Mux.Handle("GET /api/loans/{$}", r.secured(loans.HandleListMine, r.limits.Lenient))
	r.Mux.Handle("POST /api/loans/{$}", r.secured(loans.HandleApply, r.limits.Moderate))
	r.Mux.Handle("POST /api/loans/{id}/repay/{$}", r.secured(loans.HandleRepay, r.limits.Moderate))

	r.Mux.Handle("GET /api/groups/{id}/investments/{$}", r.secured(investments.HandleList, r.limits.Lenient))
	r.Mux.Handle("POST /api/investments/{$}", r.secured(investments.HandleCreate, r.limits.Moderate))
}

func (r *Router) registerAdmin() {
	users := &ProfileHandler{UserService: r.UserService}
	loans := &LoansHandler{LoanService: r.LoanService}

	r.Mux.Handle("GET /api/admin/users/{$}", r.staff(users.HandleListUsers, r.limits.Moderate))
	r.Mux.Handle("GET /api/admin/loans/{$}", r.staff(loans.HandleAdminList, r.limits.Moderate))
	r.Mux.Handle("POST /api/admin/loans/{id}/decision/{$}", r.staff(loans.HandleDecide, r.limits.Moderate))
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
