package notificationhandler

import (
	"time"

	"pm-tools-backend/config"
	"pm-tools-backend/db"
	companyusersstore "pm-tools-backend/lib/company/users/store"
	pushdatastore "pm-tools-backend/lib/notification/push-store"
	"pm-tools-backend/lib/smtp"
	connectionhub "pm-tools-backend/lib/ws/hub/connection-hub"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"
	wsmodels "pm-tools-backend/models/ws"

	log "github.com/sirupsen/logrus"
)

// Provider - диспетчер уведомлений.
// Вызывается только после фиксации транзакции: все ошибки доставки
// логируются и никогда не влияют на результат основной операции.
type Provider interface {
	Notify(userID string, data models.NotificationData)
	NotifyAll(userIDs []string, data models.NotificationData)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		userStore: companyusersstore.NewInstance(db.DB),
		pushStore: pushdatastore.NewInstance(db.DB),
	}
}

type impl struct {
	userStore companyusersstore.Provider
	pushStore pushdatastore.Provider
}

func (i impl) getLogger(userID string, code models.PushCode) *log.Entry {
	logger := log.
		WithField("user_id", userID).
		WithField("event_code", string(code))
	return logger
}

func (i impl) Notify(userID string, data models.NotificationData) {
	logger := i.getLogger(userID, data.Code)
	user, err := i.userStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователя")
		return
	}
	if user == nil {
		logger.Error("пользователь не найден")
		return
	}
	if !user.PushEnabled {
		return
	}

	msg := wsmodels.ServerMessage{
		ToUserID: userID,
		Time:     time.Now().Format("2006-01-02 15:04:05"),
		Code:     string(data.Code),
		Title:    data.Title,
		Msg:      data.Msg,
	}
	if !connectionhub.Instance.SendMessage(msg) {
		// нет активного подключения - откладываем до следующего входа
		rec := dbmodels.PushData{
			UserID: userID,
			Code:   data.Code,
			Title:  data.Title,
			Msg:    data.Msg,
		}
		if err = i.pushStore.Create(rec); err != nil {
			logger.WithError(err).Error("ошибка сохранения отложенного уведомления")
		}
	}

	if user.EmailNotify && user.Email != "" {
		err = smtp.Instance.SendEMail(config.Conf.Smtp.User, user.Email, data.Msg, data.Title)
		if err != nil {
			logger.WithError(err).Error("ошибка отправки email уведомления")
		}
	}
}

func (i impl) NotifyAll(userIDs []string, data models.NotificationData) {
	for _, userID := range userIDs {
		i.Notify(userID, data)
	}
}
