package apiv1

import (
	"fmt"
	"io"
	"time"

	"pm-tools-backend/controllers"
	approvalhandler "pm-tools-backend/lib/approval"
	approvalaccess "pm-tools-backend/lib/approval/access"
	"pm-tools-backend/middleware"
	apimodels "pm-tools-backend/models/api"
	approvalapimodels "pm-tools-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app *fiber.App) {
	controller := approvalApiController{}
	app.Route("approvals", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("export", controller.exportList)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", middleware.PrivilegedRoleRequired(), controller.override)
			idRoute.Delete("", controller.delete)
			idRoute.Post("respond", controller.respond)
			idRoute.Get("history", controller.history)
			idRoute.Get("history/export", controller.historyExport)
			idRoute.Get("sheet", controller.sheet)
			idRoute.Post("comment", controller.addComment)
			idRoute.Get("comments", controller.comments)
			idRoute.Post("attachment", controller.uploadAttachment)
			idRoute.Get("attachment/:attachmentId", controller.getAttachment)
		})
	})
}

func getCaller(ctx *fiber.Ctx) approvalaccess.Caller {
	return approvalaccess.Caller{
		UserID:    middleware.GetUserID(ctx),
		CompanyID: middleware.GetCompanyID(ctx),
		Role:      middleware.GetUserRole(ctx),
	}
}

// @Summary Список согласований
// @Tags Согласования
// @Description Список согласований с фильтром и пагинацией
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"Статус"
// @Param   type				query		string	false	"Тип"
// @Param   page				query		int		false	"Страница"
// @Param   limit				query		int		false	"Записей на странице"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals [get]
func (c *approvalApiController) list(ctx *fiber.Ctx) error {
	var filter approvalapimodels.ApprovalFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := approvalhandler.Instance.List(getCaller(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка согласований")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Создание
// @Tags Согласования
// @Description Создание согласования с участниками
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 approvalapimodels.ApprovalCreateData	true	"request body"
// @Success 201 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals [post]
func (c *approvalApiController) create(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	caller := getCaller(ctx)
	id, err := approvalhandler.Instance.Create(caller, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания согласования")
	}
	resp, err := approvalhandler.Instance.GetByID(caller, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения согласования")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Получение по ИД
// @Tags Согласования
// @Description Согласование с участниками, вложениями и комментариями
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id} [get]
func (c *approvalApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalhandler.Instance.GetByID(getCaller(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Прямая установка статуса
// @Tags Согласования
// @Description Установка статуса в обход голосования, доступна владельцу и администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Param	body body	 approvalapimodels.ApprovalOverrideData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id} [put]
func (c *approvalApiController) override(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalOverrideData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalhandler.Instance.OverrideStatus(getCaller(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка установки статуса согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Ответ участника
// @Tags Согласования
// @Description Решение участника по согласованию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Param	body body	 approvalapimodels.ApprovalRespondData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id}/respond [post]
func (c *approvalApiController) respond(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalRespondData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalhandler.Instance.Respond(getCaller(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обработки ответа по согласованию")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Удаление
// @Tags Согласования
// @Description Удаление согласования со всеми подчиненными записями
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id} [delete]
func (c *approvalApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = approvalhandler.Instance.Delete(getCaller(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary История
// @Tags Согласования
// @Description Журнал действий по согласованию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id}/history [get]
func (c *approvalApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalhandler.Instance.History(getCaller(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary История. Выгрузить в Excel
// @Tags Согласования
// @Description История согласования в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id}/history/export [get]
func (c *approvalApiController) historyExport(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := approvalhandler.Instance.ExportHistory(getCaller(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки истории согласования в Excel")
	}
	fileName := fmt.Sprintf("approval-history-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Реестр. Выгрузить в Excel
// @Tags Согласования
// @Description Реестр доступных согласований в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"Статус"
// @Param   type				query		string	false	"Тип"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/export [get]
func (c *approvalApiController) exportList(ctx *fiber.Ctx) error {
	var filter approvalapimodels.ApprovalFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := approvalhandler.Instance.ExportList(getCaller(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки реестра согласований в Excel")
	}
	fileName := fmt.Sprintf("approvals-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Лист согласования
// @Tags Согласования
// @Description Лист согласования в pdf, доступен после завершения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id}/sheet [get]
func (c *approvalApiController) sheet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := approvalhandler.Instance.SignOffSheet(getCaller(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования листа согласования")
	}
	fileName := fmt.Sprintf("approval-sheet-%v.pdf", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Status(fiber.StatusOK).Send(data)
}

// @Summary Добавить комментарий
// @Tags Согласования
// @Description Комментарий к согласованию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Param	body body	 approvalapimodels.ApprovalCommentData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id}/comment [post]
func (c *approvalApiController) addComment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalCommentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	commentID, err := approvalhandler.Instance.AddComment(getCaller(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления комментария")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(commentID))
}

// @Summary Комментарии
// @Tags Согласования
// @Description Комментарии по согласованию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.CommentView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id}/comments [get]
func (c *approvalApiController) comments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalhandler.Instance.Comments(getCaller(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения комментариев")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Загрузить вложение
// @Tags Согласования
// @Description Загрузка файла вложения к согласованию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Param   attachment		formData	file 	true 	"file to upload"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id}/attachment [post]
func (c *approvalApiController) uploadAttachment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := ctx.FormFile("attachment")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()
	fileBody, err := io.ReadAll(buffer)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	contentType := file.Header.Get("Content-Type")
	attachmentID, err := approvalhandler.Instance.UploadAttachment(ctx.UserContext(), getCaller(ctx), id, file.Filename, contentType, fileBody)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки вложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(attachmentID))
}

// @Summary Скачать вложение
// @Tags Согласования
// @Description Скачивание файла вложения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Param   attachmentId		path    string  true         "ID вложения"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/company/approvals/{id}/attachment/{attachmentId} [get]
func (c *approvalApiController) getAttachment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	attachmentID, err := c.GetIDByKey(ctx, "attachmentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileName, contentType, body, err := approvalhandler.Instance.GetAttachment(ctx.UserContext(), getCaller(ctx), id, attachmentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка скачивания вложения")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Set("Content-Type", contentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Status(fiber.StatusOK).Send(body)
}
