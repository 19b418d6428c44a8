package usercontext

import "github.com/gofiber/fiber/v2"

// Shared Locals keys used across controllers and middlewares
const (
	ContextKey       = "USER_CONTEXT"
	KeyUserID        = "user_id"
	KeyRestaurantID  = "restaurant_id"
	KeyIsAdmin       = "isAdmin"
	KeyFromProtected = "from_protected"
)

// UserContext represents the complete user context for a request. The tenant
// id is carried explicitly so downstream services never reach for ambient
// state.
type UserContext struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	RestaurantID uint   `json:"restaurant_id"`
	IsLoggedIn   bool   `json:"is_logged_in"`
	IsAdmin      bool   `json:"is_admin"`
}

// GetUserContext retrieves the user context from fiber context.
// Returns a default anonymous context if none is set.
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is a platform operator
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// GetRestaurantID returns the tenant the current user belongs to, or 0 for
// platform operators and anonymous callers.
func GetRestaurantID(c *fiber.Ctx) uint {
	return GetUserContext(c).RestaurantID
}
