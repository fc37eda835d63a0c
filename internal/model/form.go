package model

import "time"

// FieldType перечисляет поддерживаемые типы полей формы.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldSelect FieldType = "select"
	FieldFile   FieldType = "file"
)

// Field представляет одно поле внутри секции формы.
// ID стабилен и уникален в пределах формы: по нему сопоставляются ответы.
type Field struct {
	ID       string    `json:"_id"`
	Type     FieldType `json:"type"`
	Label    string    `json:"label"`
	Name     string    `json:"name"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"` // только для type=select
}

// Section представляет секцию формы. Порядок полей значим.
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Form описывает документ формы.
// CustomLink опционален и глобально уникален; URLID присутствует всегда.
type Form struct {
	ID             string     `json:"_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Sections       []Section  `json:"sections"`
	Owner          string     `json:"owner,omitempty"`
	IsEditable     bool       `json:"isEditable"`
	AllowDeletion  bool       `json:"allowDeletion"`
	RequireAccount bool       `json:"requireAccount"`
	Published      bool       `json:"published"`
	CustomLink     string     `json:"customLink,omitempty"`
	URLID          string     `json:"urlId"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	LastEditedAt   *time.Time `json:"lastEditedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// IsExpired сообщает, истекла ли форма к моменту now.
func (f *Form) IsExpired(now time.Time) bool {
	return f.ExpiryDate != nil && now.After(*f.ExpiryDate)
}

// FieldByID ищет поле по идентификатору во всех секциях.
func (f *Form) FieldByID(id string) (Field, bool) {
	for _, section := range f.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}
