package policy_test

import (
	"testing"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/flexiforms/FlexiForms/internal/policy"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func activeForm() *model.Form {
	return &model.Form{ID: "form-1", Owner: "owner-1", Published: true}
}

func expiredForm() *model.Form {
	past := now.Add(-time.Hour)
	f := activeForm()
	f.ExpiryDate = &past
	return f
}

func TestCanSubmit_Anonymous(t *testing.T) {
	assert.NoError(t, policy.CanSubmit(activeForm(), "", now))
}

func TestCanSubmit_AuthenticatedNonOwner(t *testing.T) {
	assert.NoError(t, policy.CanSubmit(activeForm(), "user-2", now))
}

// Владелец не может отправить ответ на собственную форму
func TestCanSubmit_OwnerDenied(t *testing.T) {
	err := policy.CanSubmit(activeForm(), "owner-1", now)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCanSubmit_Expired(t *testing.T) {
	err := policy.CanSubmit(expiredForm(), "user-2", now)
	assert.ErrorIs(t, err, apperr.ErrExpired)
}

func TestCanSubmit_FormMissing(t *testing.T) {
	err := policy.CanSubmit(nil, "user-2", now)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCanViewShared(t *testing.T) {
	assert.NoError(t, policy.CanViewShared(activeForm(), now))
	assert.ErrorIs(t, policy.CanViewShared(expiredForm(), now), apperr.ErrExpired)
	assert.ErrorIs(t, policy.CanViewShared(nil, now), apperr.ErrNotFound)
}

func TestCanReadSubmission(t *testing.T) {
	form := activeForm()
	sub := &model.Submission{ID: "sub-1", FormID: form.ID, SubmittedBy: "user-2"}

	assert.NoError(t, policy.CanReadSubmission(form, sub, "owner-1"), "владелец формы")
	assert.NoError(t, policy.CanReadSubmission(form, sub, "user-2"), "автор отправки")
	assert.ErrorIs(t, policy.CanReadSubmission(form, sub, "user-3"), apperr.ErrForbidden)
	assert.ErrorIs(t, policy.CanReadSubmission(form, nil, "owner-1"), apperr.ErrNotFound)
}

// Анонимную отправку не может читать другой аноним
func TestCanReadSubmission_AnonymousSubmitter(t *testing.T) {
	form := activeForm()
	sub := &model.Submission{ID: "sub-1", FormID: form.ID}

	assert.ErrorIs(t, policy.CanReadSubmission(form, sub, ""), apperr.ErrForbidden)
	assert.NoError(t, policy.CanReadSubmission(form, sub, "owner-1"))
}

func TestCanUpdateSubmission(t *testing.T) {
	form := activeForm()
	form.IsEditable = true
	sub := &model.Submission{ID: "sub-1", FormID: form.ID, SubmittedBy: "user-2"}

	assert.NoError(t, policy.CanUpdateSubmission(form, sub, "user-2"))
	assert.ErrorIs(t, policy.CanUpdateSubmission(form, sub, "user-3"), apperr.ErrForbidden)

	locked := activeForm()
	assert.ErrorIs(t, policy.CanUpdateSubmission(locked, sub, "user-2"), apperr.ErrForbidden,
		"форма не допускает редактирование")
	assert.ErrorIs(t, policy.CanUpdateSubmission(nil, sub, "user-2"), apperr.ErrNotFound,
		"форма удалена")
}

func TestCanDeleteSubmission(t *testing.T) {
	form := activeForm()
	form.AllowDeletion = true
	sub := &model.Submission{ID: "sub-1", FormID: form.ID, SubmittedBy: "user-2"}

	assert.NoError(t, policy.CanDeleteSubmission(form, sub, "user-2"))
	assert.ErrorIs(t, policy.CanDeleteSubmission(form, sub, "user-3"), apperr.ErrForbidden)

	locked := activeForm()
	assert.ErrorIs(t, policy.CanDeleteSubmission(locked, sub, "user-2"), apperr.ErrForbidden,
		"форма запрещает удаление")

	// Осиротевшая отправка удаляется безусловно (её автором)
	assert.NoError(t, policy.CanDeleteSubmission(nil, sub, "user-2"))
	assert.ErrorIs(t, policy.CanDeleteSubmission(nil, sub, "user-3"), apperr.ErrForbidden)
}
