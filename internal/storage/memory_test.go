package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/flexiforms/FlexiForms/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func form(id, owner string) *model.Form {
	return &model.Form{ID: id, Title: "T", Owner: owner, URLID: "url-" + id}
}

func TestFormStore_SaveAndGet(t *testing.T) {
	store := storage.NewFormStore()
	require.NoError(t, store.SaveForm(context.Background(), form("f1", "u1")))

	got, err := store.GetFormByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)

	_, err = store.GetFormByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// Повтор custom link отклоняется на уровне хранилища
func TestFormStore_CustomLinkConflict(t *testing.T) {
	store := storage.NewFormStore()
	first := form("f1", "u1")
	first.CustomLink = "link"
	require.NoError(t, store.SaveForm(context.Background(), first))

	second := form("f2", "u2")
	second.CustomLink = "link"
	assert.ErrorIs(t, store.SaveForm(context.Background(), second), apperr.ErrConflict)
}

func TestFormStore_GetByCustomLinkAndURLID(t *testing.T) {
	store := storage.NewFormStore()
	f := form("f1", "u1")
	f.CustomLink = "pretty"
	require.NoError(t, store.SaveForm(context.Background(), f))

	byLink, err := store.GetFormByCustomLink(context.Background(), "pretty")
	require.NoError(t, err)
	assert.Equal(t, "f1", byLink.ID)

	byURL, err := store.GetFormByURLID(context.Background(), "url-f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", byURL.ID)
}

// Возвращаемые документы — копии: мутации снаружи не видны хранилищу
func TestFormStore_ReturnsCopies(t *testing.T) {
	store := storage.NewFormStore()
	require.NoError(t, store.SaveForm(context.Background(), form("f1", "u1")))

	got, _ := store.GetFormByID(context.Background(), "f1")
	got.Title = "mutated"

	again, _ := store.GetFormByID(context.Background(), "f1")
	assert.Equal(t, "T", again.Title)
}

func TestFormStore_UpdateOwnedConflation(t *testing.T) {
	store := storage.NewFormStore()
	require.NoError(t, store.SaveForm(context.Background(), form("f1", "u1")))

	_, err := store.UpdateFormOwned(context.Background(), &model.Form{ID: "f1", Owner: "intruder", Title: "X"})
	assert.ErrorIs(t, err, apperr.ErrNotFound, "чужая форма неотличима от отсутствующей")

	updated, err := store.UpdateFormOwned(context.Background(), &model.Form{ID: "f1", Owner: "u1", Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Title)
	assert.NotNil(t, updated.LastEditedAt)
}

func TestSubmissionStore_OrderAndDelete(t *testing.T) {
	forms := storage.NewFormStore()
	store := storage.NewSubmissionStore(forms)

	first := &model.Submission{ID: "s1", FormID: "f1", FormTitle: "T", Responses: map[string]any{}, FieldLabels: map[string]string{}}
	require.NoError(t, store.SaveSubmission(context.Background(), first))
	time.Sleep(5 * time.Millisecond)
	second := &model.Submission{ID: "s2", FormID: "f1", FormTitle: "T", Responses: map[string]any{}, FieldLabels: map[string]string{}}
	require.NoError(t, store.SaveSubmission(context.Background(), second))

	subs, err := store.GetSubmissionsByForm(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "s2", subs[0].ID, "от новых к старым")

	require.NoError(t, store.DeleteSubmission(context.Background(), "s1"))
	assert.ErrorIs(t, store.DeleteSubmission(context.Background(), "s1"), apperr.ErrNotFound)
}

func TestUserStore_EmailConflict(t *testing.T) {
	store := storage.NewUserStore()
	require.NoError(t, store.SaveUser(context.Background(), &model.User{ID: "u1", Email: "a@b.c"}))
	assert.ErrorIs(t, store.SaveUser(context.Background(), &model.User{ID: "u2", Email: "a@b.c"}), apperr.ErrConflict)

	got, err := store.GetUserByEmail(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}
