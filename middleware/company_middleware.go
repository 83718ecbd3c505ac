package middleware

import (
	authutils "pm-tools-backend/lib/utils/auth-utils"
	"pm-tools-backend/models"
	apimodels "pm-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetCompanyID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if company, exist := claims["company"]; exist {
		return company.(string)
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func PrivilegedRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetUserRole(ctx).IsPrivileged() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
