package apiv1

import (
	"pm-tools-backend/controllers"
	companyusers "pm-tools-backend/lib/company/users"
	"pm-tools-backend/middleware"
	apimodels "pm-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type companyUserApiController struct {
	controllers.BaseAPIController
}

func InitCompanyUserApiRouters(app *fiber.App) {
	controller := companyUserApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Get(":id", controller.get)
	})
}

// @Summary Сотрудники компании
// @Tags Сотрудники
// @Description Список сотрудников компании
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/users [get]
func (c *companyUserApiController) list(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	resp, err := companyusers.Instance.List(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка сотрудников")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Сотрудник по ИД
// @Tags Сотрудники
// @Description Данные сотрудника компании
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/users/{id} [get]
func (c *companyUserApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	resp, err := companyusers.Instance.GetByID(companyID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
