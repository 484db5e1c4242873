package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"contentproof/internal/http/middleware"
	"contentproof/internal/service"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the body for successful signup and signin.
type authResponse struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

func toAuthResponse(res *service.AuthResult) authResponse {
	return authResponse{
		ID:      res.User.ID,
		Name:    res.User.Name,
		Email:   res.User.Email,
		Token:   res.Token,
		Message: res.Message,
	}
}

// Signup godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signupRequest true "account"
// @Success 201 {object} authResponse
// @Failure 400 {object} errorPayload
// @Router /api/auth/signup [post]
func Signup(svc service.AuthService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER_DATA", service.ErrInvalidUserData.Error())
		}

		res, err := svc.Signup(c.UserContext(), req.Name, req.Email, req.Password)
		switch {
		case err == nil:
			return c.Status(fiber.StatusCreated).JSON(toAuthResponse(res))
		case errors.Is(err, service.ErrInvalidUserData):
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER_DATA", err.Error())
		case errors.Is(err, service.ErrDuplicateUser):
			return writeError(c, fiber.StatusBadRequest, "DUPLICATE_USER", err.Error())
		default:
			log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("signup failed")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Server error")
		}
	}
}

// Signin godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signinRequest true "credentials"
// @Success 200 {object} authResponse
// @Failure 401 {object} errorPayload
// @Router /api/auth/signin [post]
func Signin(svc service.AuthService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signinRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER_DATA", service.ErrInvalidUserData.Error())
		}

		res, err := svc.Signin(c.UserContext(), req.Email, req.Password)
		switch {
		case err == nil:
			return c.Status(fiber.StatusOK).JSON(toAuthResponse(res))
		case errors.Is(err, service.ErrInvalidCredentials):
			return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
		default:
			log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("signin failed")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Server error")
		}
	}
}

// Me godoc
// @Summary Current token claims
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} errorPayload
// @Router /api/me [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		}
		var exp int64
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Unix()
		}
		return c.JSON(fiber.Map{
			"_id":   claims.ID,
			"name":  claims.Name,
			"email": claims.Email,
			"exp":   exp,
		})
	}
}
