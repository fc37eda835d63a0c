package validator_test

import (
	"testing"

	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/flexiforms/FlexiForms/internal/validator"
	"github.com/stretchr/testify/assert"
)

func sampleForm() *model.Form {
	return &model.Form{
		ID:    "form-1",
		Title: "Анкета",
		Sections: []model.Section{
			{
				ID:    "s1",
				Title: "Основное",
				Fields: []model.Field{
					{ID: "f1", Type: model.FieldText, Label: "Name", Name: "name", Required: true},
					{ID: "f2", Type: model.FieldNumber, Label: "Age", Name: "age"},
				},
			},
			{
				ID:    "s2",
				Title: "Документы",
				Fields: []model.Field{
					{ID: "f3", Type: model.FieldFile, Label: "Resume", Name: "resume"},
				},
			},
		},
	}
}

// Ответы копируются по известным полям, подписи фиксируются на момент отправки
func TestValidate_KnownFields(t *testing.T) {
	responses, labels := validator.Validate(sampleForm(), map[string]any{"f1": "Alice"}, nil)

	assert.Equal(t, map[string]any{"f1": "Alice"}, responses)
	assert.Equal(t, map[string]string{"f1": "Name"}, labels)
}

// Посторонние ключи отбрасываются
func TestValidate_UnknownKeysDropped(t *testing.T) {
	raw := map[string]any{"f1": "x", "unknown_field": "y"}
	responses, labels := validator.Validate(sampleForm(), raw, nil)

	assert.Equal(t, map[string]any{"f1": "x"}, responses)
	assert.NotContains(t, responses, "unknown_field")
	assert.NotContains(t, labels, "unknown_field")
}

// Результат всегда подмножество идентификаторов полей формы
func TestValidate_OutputSubsetOfFields(t *testing.T) {
	form := sampleForm()
	raw := map[string]any{"f1": 1, "f2": 2, "f3": 3, "junk": 4, "": 5}
	responses, _ := validator.Validate(form, raw, nil)

	for key := range responses {
		_, known := form.FieldByID(key)
		assert.True(t, known, "unexpected key %q", key)
	}
}

// Обязательность полей на сервере не проверяется: пустая карта допустима
func TestValidate_MissingRequiredFieldAccepted(t *testing.T) {
	responses, labels := validator.Validate(sampleForm(), map[string]any{}, nil)

	assert.Empty(t, responses)
	assert.Empty(t, labels)
}

// Загруженный файл перекрывает значение соответствующего поля токеном
func TestValidate_FileOverridesValue(t *testing.T) {
	raw := map[string]any{"f3": "placeholder"}
	files := []validator.UploadedFile{{FieldName: "f3", StoredAs: "1700000000-resume.pdf"}}

	responses, labels := validator.Validate(sampleForm(), raw, files)

	assert.Equal(t, "1700000000-resume.pdf", responses["f3"])
	assert.Equal(t, "Resume", labels["f3"])
}

// Файл без соответствующего ключа в ответах не добавляет новых ключей
func TestValidate_FileWithoutRawKeyIgnored(t *testing.T) {
	files := []validator.UploadedFile{
		{FieldName: "f3", StoredAs: "stored.bin"},
		{FieldName: "ghost", StoredAs: "ghost.bin"},
	}

	responses, _ := validator.Validate(sampleForm(), map[string]any{"f1": "x"}, files)

	assert.NotContains(t, responses, "f3")
	assert.NotContains(t, responses, "ghost")
}
