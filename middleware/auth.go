package middleware

import (
	"net/http"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/services"
	"github.com/luminax-app/luminax_api/shared"
)

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc *services.JWTService
}

const AUTH_MIDDLEWARE_SVC = "auth"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	svc.jwtSvc = ctx.Service(services.JWT_SVC).(*services.JWTService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	return nil
}

func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// OptionalAuth sets the user ID when a valid token is present and lets
// anonymous requests through.
func (svc *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return c.Next()
		}

		if userID, err := svc.jwtSvc.VerifyJWTToken(token); err == nil && userID != "" {
			c.Locals(shared.UserID, userID)
		}
		return c.Next()
	}
}
