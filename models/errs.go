package models

import "github.com/pkg/errors"

// Базовые ошибки бизнес-логики, контроллер преобразует их в HTTP статус.
// На детальных чтениях ErrForbidden наружу не отдается - клиент получает 404,
// чтобы не подтверждать существование чужой записи.
var (
	ErrNotFound        = errors.New("запись не найдена")
	ErrForbidden       = errors.New("операция недоступна")
	ErrInvalidArgument = errors.New("некорректный запрос")
	ErrConflict        = errors.New("конфликт параллельного изменения")
)
