package model

import "time"

// Submission представляет сохранённый ответ на форму.
// FormTitle и FieldLabels денормализованы на момент отправки,
// чтобы пережить последующее изменение или удаление формы.
type Submission struct {
	ID          string            `json:"_id"`
	FormID      string            `json:"form"`
	FormTitle   string            `json:"formTitle"`
	Responses   map[string]any    `json:"responses"`
	FieldLabels map[string]string `json:"fieldLabels"`
	SubmittedBy string            `json:"submittedBy,omitempty"` // пусто для анонимных отправок
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// SubmissionWithForm объединяет отправку с ограниченным срезом полей формы
// для списка «мои отправки».
type SubmissionWithForm struct {
	Submission
	Form *SubmissionFormInfo `json:"formInfo,omitempty"`
}

// SubmissionFormInfo — ограниченные поля формы, доступные отправителю.
type SubmissionFormInfo struct {
	Title         string `json:"title"`
	IsEditable    bool   `json:"isEditable"`
	AllowDeletion bool   `json:"allowDeletion"`
}
