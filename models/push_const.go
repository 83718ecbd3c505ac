package models

import "fmt"

type PushCode string

type PushTpl struct {
	Name  string
	Title string
	Msg   string
}

var PushCodeMap = map[PushCode]PushTpl{
	PushApprovalNew:       {Name: "Новое согласование", Title: "Новое согласование", Msg: "Вы назначены участником согласования «%v»%v."},
	PushApprovalResponse:  {Name: "Получен голос по согласованию", Title: "Получен ответ по согласованию", Msg: "Пользователь %v ответил «%v» по согласованию «%v»."},
	PushApprovalCompleted: {Name: "Согласование завершено", Title: "Согласование завершено", Msg: "Согласование «%v» завершено. Итог: %v."},
}

const (
	PushApprovalNew       PushCode = "PushApprovalNew"
	PushApprovalResponse  PushCode = "PushApprovalResponse"
	PushApprovalCompleted PushCode = "PushApprovalCompleted"
)

type NotificationData struct {
	Code  PushCode
	Msg   string
	Title string
}

func GetPushApprovalNew(approvalTitle, projectName string) NotificationData {
	code := PushApprovalNew
	inProject := ""
	if projectName != "" {
		inProject = fmt.Sprintf(" по проекту «%v»", projectName)
	}
	return NotificationData{
		Code:  code,
		Title: PushCodeMap[code].Title,
		Msg:   fmt.Sprintf(PushCodeMap[code].Msg, approvalTitle, inProject),
	}
}

func GetPushApprovalResponse(userName string, decision ApprovalStatus, approvalTitle string) NotificationData {
	code := PushApprovalResponse
	return NotificationData{
		Code:  code,
		Title: PushCodeMap[code].Title,
		Msg:   fmt.Sprintf(PushCodeMap[code].Msg, userName, decision.ToHuman(), approvalTitle),
	}
}

func GetPushApprovalCompleted(approvalTitle string, status ApprovalStatus) NotificationData {
	code := PushApprovalCompleted
	return NotificationData{
		Code:  code,
		Title: PushCodeMap[code].Title,
		Msg:   fmt.Sprintf(PushCodeMap[code].Msg, approvalTitle, status.ToHuman()),
	}
}
