package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-market.com/task-market/internal/constants"
	"task-market.com/task-market/internal/identity"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	actorContextKey = "actor"
)

// Identity trusts the gateway in front of the service to have authenticated
// the caller and forwarded who they are in the X-User-* headers.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderUserID)
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserID)
			}
			role, err := constants.ParseRole(c.Request().Header.Get(HeaderUserRole))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+HeaderUserRole)
			}

			actor := identity.Actor{ID: id, Role: role}
			c.Set(actorContextKey, actor)
			c.SetRequest(c.Request().WithContext(identity.WithActor(c.Request().Context(), actor)))

			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by Identity, or the zero Actor, which
// the gate rejects.
func ActorFrom(c echo.Context) identity.Actor {
	if actor, ok := c.Get(actorContextKey).(identity.Actor); ok {
		return actor
	}
	actor, _ := identity.FromContext(c.Request().Context())
	return actor
}
