package connectionhub

import (
	"sync"

	"pm-tools-backend/db"
	pushdatastore "pm-tools-backend/lib/notification/push-store"
	wsmodels "pm-tools-backend/models/ws"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string)
	SendMessage(msg wsmodels.ServerMessage) (delivered bool)
	SendClose(userID string)
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = &impl{
		clients: map[string]clientSession{},
		store:   pushdatastore.NewInstance(db.DB),
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]clientSession //map[userID]
	store   pushdatastore.Provider
}

func (i *impl) DeleteClient(userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[userID]
	if !ok {
		return
	}
	delete(i.clients, userID)
	sess.stop()
	close(sess.sendCh)
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	if ok {
		oldSess.stop()
	}
	i.clients[userID] = newSession(conn)
	i.mu.Unlock()
	go i.sendDelayedMessages(userID)
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) (delivered bool) {
	i.mu.RLock()
	sess, ok := i.clients[msg.ToUserID]
	i.mu.RUnlock()
	if ok {
		sess.sendCh <- msg
		return true
	}
	return false
}

func (i *impl) SendClose(userID string) {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[userID]
	return ok && sess.conn != nil && sess.conn.Conn != nil
}

// при подключении пользователя выгружаем накопленные уведомления
func (i *impl) sendDelayedMessages(userID string) {
	list, err := i.store.List(userID)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("ошибка получения отложенных уведомлений")
		return
	}
	if len(list) == 0 {
		return
	}
	sentIDs := make([]string, 0, len(list))
	for _, rec := range list {
		msg := wsmodels.ServerMessage{
			ToUserID: userID,
			Time:     rec.CreatedAt.Format("2006-01-02 15:04:05"),
			Code:     string(rec.Code),
			Title:    rec.Title,
			Msg:      rec.Msg,
		}
		if !i.SendMessage(msg) {
			break
		}
		sentIDs = append(sentIDs, rec.ID)
	}
	if len(sentIDs) == 0 {
		return
	}
	if err = i.store.Delete(sentIDs); err != nil {
		log.WithField("user_id", userID).WithError(err).Error("ошибка удаления доставленных уведомлений")
	}
}
