package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/flexiforms/FlexiForms/internal/service"
	"github.com/flexiforms/FlexiForms/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFormService() (*service.FormService, *storage.FormStore) {
	store := storage.NewFormStore()
	return service.NewFormService(store, zap.NewNop()), store
}

func seedForm(t *testing.T, store *storage.FormStore, form *model.Form) *model.Form {
	t.Helper()
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	if form.URLID == "" {
		form.URLID = uuid.NewString()
	}
	require.NoError(t, store.SaveForm(context.Background(), form))
	return form
}

func TestCreateForm(t *testing.T) {
	svc, _ := newFormService()

	form, err := svc.CreateForm(context.Background(), "owner-1", model.FormRequest{
		Title:      "Опрос",
		CustomLink: "  my-link  ",
		Sections: []model.Section{
			{Title: "Секция", Fields: []model.Field{{Type: model.FieldText, Label: "Name", Name: "name"}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "owner-1", form.Owner)
	assert.Equal(t, "my-link", form.CustomLink, "ссылка обрезается")
	assert.NotEmpty(t, form.URLID)
	assert.NotEmpty(t, form.ID)
	assert.True(t, form.Published)
	assert.NotEmpty(t, form.Sections[0].ID, "секции получают идентификаторы")
	assert.NotEmpty(t, form.Sections[0].Fields[0].ID, "поля получают идентификаторы")
}

func TestCreateForm_EmptyTitle(t *testing.T) {
	svc, _ := newFormService()
	_, err := svc.CreateForm(context.Background(), "owner-1", model.FormRequest{Title: "   "})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateForm_DuplicateCustomLink(t *testing.T) {
	svc, _ := newFormService()

	_, err := svc.CreateForm(context.Background(), "owner-1", model.FormRequest{Title: "A", CustomLink: "taken"})
	require.NoError(t, err)

	_, err = svc.CreateForm(context.Background(), "owner-2", model.FormRequest{Title: "B", CustomLink: "taken"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

// Повторное чтение по id и по custom link возвращает один и тот же документ
func TestGetForm_ByIDAndByLink(t *testing.T) {
	svc, _ := newFormService()

	created, err := svc.CreateForm(context.Background(), "owner-1", model.FormRequest{Title: "A", CustomLink: "same-doc"})
	require.NoError(t, err)

	byID, err := svc.GetForm(context.Background(), created.ID)
	require.NoError(t, err)
	byLink, err := svc.GetForm(context.Background(), "same-doc")
	require.NoError(t, err)

	assert.Equal(t, byID.ID, byLink.ID)
	assert.Equal(t, byID.Title, byLink.Title)
	assert.False(t, byID.Expired)
}

// Истёкшая форма по обычному пути не прячется, а помечается флагом
func TestGetForm_ExpiredFlag(t *testing.T) {
	svc, store := newFormService()
	past := time.Now().Add(-time.Hour)
	form := seedForm(t, store, &model.Form{Title: "Old", Owner: "owner-1", ExpiryDate: &past})

	got, err := svc.GetForm(context.Background(), form.ID)
	require.NoError(t, err)
	assert.True(t, got.Expired)
}

// Порядок разрешения shared-идентификатора: custom link → urlId → id
func TestGetSharedForm_CustomLinkBeatsRawID(t *testing.T) {
	svc, store := newFormService()

	linkID := uuid.NewString()
	byLink := seedForm(t, store, &model.Form{Title: "ПоСсылке", Owner: "o1", CustomLink: linkID})
	seedForm(t, store, &model.Form{ID: linkID, Title: "ПоID", Owner: "o2"})

	got, err := svc.GetSharedForm(context.Background(), linkID)
	require.NoError(t, err)
	assert.Equal(t, byLink.ID, got.ID, "точное совпадение custom link важнее совпадения id")
}

func TestGetSharedForm_URLIDBeatsRawID(t *testing.T) {
	svc, store := newFormService()

	sharedID := uuid.NewString()
	byURL := seedForm(t, store, &model.Form{Title: "ПоURL", Owner: "o1", URLID: sharedID})
	seedForm(t, store, &model.Form{ID: sharedID, Title: "ПоID", Owner: "o2"})

	got, err := svc.GetSharedForm(context.Background(), sharedID)
	require.NoError(t, err)
	assert.Equal(t, byURL.ID, got.ID)
}

// Владелец вычищается из shared-ответа
func TestGetSharedForm_StripsOwner(t *testing.T) {
	svc, store := newFormService()
	form := seedForm(t, store, &model.Form{Title: "A", Owner: "owner-1"})

	got, err := svc.GetSharedForm(context.Background(), form.URLID)
	require.NoError(t, err)
	assert.Empty(t, got.Owner)
}

func TestGetSharedForm_Expired(t *testing.T) {
	svc, store := newFormService()
	past := time.Now().Add(-time.Minute)
	form := seedForm(t, store, &model.Form{Title: "A", Owner: "owner-1", ExpiryDate: &past})

	_, err := svc.GetSharedForm(context.Background(), form.URLID)
	assert.ErrorIs(t, err, apperr.ErrExpired)
}

func TestGetSharedForm_NotFound(t *testing.T) {
	svc, _ := newFormService()
	_, err := svc.GetSharedForm(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// Хранилище с отказом на поиске по пользовательской ссылке
type failingLinkRepo struct {
	*storage.FormStore
	err error
}

func (r *failingLinkRepo) GetFormByCustomLink(_ context.Context, _ string) (*model.Form, error) {
	return nil, r.err
}

// Сбой хранилища не проваливается к следующему способу разрешения
// и не выглядит как отсутствие формы
func TestGetSharedForm_StoreErrorPropagated(t *testing.T) {
	store := storage.NewFormStore()
	form := seedForm(t, store, &model.Form{Title: "A", Owner: "owner-1"})

	boom := errors.New("connection reset")
	svc := service.NewFormService(&failingLinkRepo{FormStore: store, err: boom}, zap.NewNop())

	_, err := svc.GetSharedForm(context.Background(), form.URLID)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}

// Чужая форма на owner-scoped операциях выглядит как отсутствующая
func TestUpdateForm_NotOwner(t *testing.T) {
	svc, store := newFormService()
	form := seedForm(t, store, &model.Form{Title: "A", Owner: "owner-1"})

	_, err := svc.UpdateForm(context.Background(), form.ID, "intruder", model.FormRequest{Title: "B"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateForm_SetsLastEditedAt(t *testing.T) {
	svc, store := newFormService()
	form := seedForm(t, store, &model.Form{Title: "A", Owner: "owner-1"})

	updated, err := svc.UpdateForm(context.Background(), form.ID, "owner-1", model.FormRequest{Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	assert.NotNil(t, updated.LastEditedAt)
}

func TestDeleteForm_NotOwner(t *testing.T) {
	svc, store := newFormService()
	form := seedForm(t, store, &model.Form{Title: "A", Owner: "owner-1"})

	assert.ErrorIs(t, svc.DeleteForm(context.Background(), form.ID, "intruder"), apperr.ErrNotFound)
	assert.NoError(t, svc.DeleteForm(context.Background(), form.ID, "owner-1"))
	assert.ErrorIs(t, svc.DeleteForm(context.Background(), form.ID, "owner-1"), apperr.ErrNotFound)
}

// Expire-now выставляет срок в прошлое и снимает публикацию;
// последующий shared-просмотр отклоняется
func TestExpireForm_ThenSharedViewDenied(t *testing.T) {
	svc, store := newFormService()
	form := seedForm(t, store, &model.Form{Title: "A", Owner: "owner-1", Published: true})

	expired, err := svc.ExpireForm(context.Background(), form.ID, "owner-1")
	require.NoError(t, err)
	assert.False(t, expired.Published)
	assert.NotNil(t, expired.ExpiryDate)

	_, err = svc.GetSharedForm(context.Background(), form.URLID)
	assert.ErrorIs(t, err, apperr.ErrExpired)
}

func TestPublishForm(t *testing.T) {
	svc, store := newFormService()
	past := time.Now().Add(-time.Hour)
	form := seedForm(t, store, &model.Form{Title: "A", Owner: "owner-1", ExpiryDate: &past})

	published, err := svc.PublishForm(context.Background(), form.ID, "owner-1", true)
	require.NoError(t, err)
	assert.True(t, published.Published)
	assert.Nil(t, published.ExpiryDate, "публикация сбрасывает срок действия")

	unpublished, err := svc.PublishForm(context.Background(), form.ID, "owner-1", false)
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
	assert.NotNil(t, unpublished.ExpiryDate)
}

func TestListExpiredForms(t *testing.T) {
	svc, store := newFormService()
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	seedForm(t, store, &model.Form{Title: "Old", Owner: "owner-1", ExpiryDate: &past})
	seedForm(t, store, &model.Form{Title: "Fresh", Owner: "owner-1", ExpiryDate: &future})
	seedForm(t, store, &model.Form{Title: "Foreign", Owner: "owner-2", ExpiryDate: &past})

	expired, err := svc.ListExpiredForms(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "Old", expired[0].Title)
}
