// Package validator сопоставляет сырой ответ с полями формы.
package validator

import "github.com/flexiforms/FlexiForms/internal/model"

// UploadedFile — пара «имя поля / имя сохранённого файла» из канала загрузки.
type UploadedFile struct {
	FieldName string
	StoredAs  string
}

// Validate фильтрует сырые ответы по известным полям формы.
//
// В результат попадают только ключи, совпадающие с идентификаторами полей
// формы; посторонние ключи отбрасываются. Для каждого принятого ключа
// фиксируется подпись поля на момент отправки. Отсутствующие в payload поля
// молча пропускаются: обязательность полей на сервере не проверяется.
// Загруженные файлы перекрывают значение соответствующего ключа именем
// сохранённого файла, но только если ключ присутствовал в сырых ответах.
func Validate(form *model.Form, raw map[string]any, files []UploadedFile) (map[string]any, map[string]string) {
	responses := make(map[string]any)
	labels := make(map[string]string)

	for _, section := range form.Sections {
		for _, field := range section.Fields {
			value, ok := raw[field.ID]
			if !ok {
				continue
			}
			responses[field.ID] = value
			labels[field.ID] = field.Label
		}
	}

	for _, file := range files {
		if _, ok := responses[file.FieldName]; ok {
			responses[file.FieldName] = file.StoredAs
		}
	}

	return responses, labels
}
