// Package policy содержит правила доступа к формам и отправкам.
//
// Все проверки — чистые функции без состояния: на вход форма, отправка
// и идентификатор запрашивающего (пустая строка — аноним), на выход
// nil либо типизированная ошибка из apperr.
package policy

import (
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
)

// CanSubmit решает, может ли requester отправить ответ на форму.
// Владельцу собственная форма запрещена; аноним допускается
// (requireAccount проверяется на клиенте и здесь сознательно не применяется).
func CanSubmit(form *model.Form, requester string, now time.Time) error {
	if form == nil {
		return apperr.ErrNotFound
	}
	if form.IsExpired(now) {
		return apperr.ErrExpired
	}
	if requester != "" && requester == form.Owner {
		return apperr.ErrForbidden
	}
	return nil
}

// CanViewShared решает, можно ли отдать форму по публичной ссылке.
// Истёкшая форма по shared-пути не отдаётся вовсе.
func CanViewShared(form *model.Form, now time.Time) error {
	if form == nil {
		return apperr.ErrNotFound
	}
	if form.IsExpired(now) {
		return apperr.ErrExpired
	}
	return nil
}

// CanReadSubmission решает, кто видит отдельную отправку:
// владелец формы либо сам отправитель.
func CanReadSubmission(form *model.Form, sub *model.Submission, requester string) error {
	if sub == nil {
		return apperr.ErrNotFound
	}
	if form != nil && form.Owner == requester {
		return nil
	}
	if sub.SubmittedBy != "" && sub.SubmittedBy == requester {
		return nil
	}
	return apperr.ErrForbidden
}

// CanUpdateSubmission решает, можно ли изменить отправку: только сам
// отправитель и только если форма помечена как редактируемая.
func CanUpdateSubmission(form *model.Form, sub *model.Submission, requester string) error {
	if sub == nil {
		return apperr.ErrNotFound
	}
	if sub.SubmittedBy == "" || sub.SubmittedBy != requester {
		return apperr.ErrForbidden
	}
	if form == nil {
		return apperr.ErrNotFound
	}
	if !form.IsEditable {
		return apperr.ErrForbidden
	}
	return nil
}

// CanDeleteSubmission решает, можно ли удалить отправку: только сам
// отправитель; если форма уже удалена, удаление разрешено безусловно,
// иначе — только при allowDeletion.
func CanDeleteSubmission(form *model.Form, sub *model.Submission, requester string) error {
	if sub == nil {
		return apperr.ErrNotFound
	}
	if sub.SubmittedBy == "" || sub.SubmittedBy != requester {
		return apperr.ErrForbidden
	}
	if form == nil {
		// Осиротевшая отправка: форма удалена, запрет снимается.
		return nil
	}
	if !form.AllowDeletion {
		return apperr.ErrForbidden
	}
	return nil
}
