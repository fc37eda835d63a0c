package model

// RegisterRequest представляет тело запроса на регистрацию.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest представляет тело запроса на вход.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse возвращает токен и публичные данные пользователя.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser — публичная часть пользователя в ответе на вход.
type LoginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FormRequest представляет тело запроса на создание или обновление формы.
type FormRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Sections       []Section `json:"sections"`
	IsEditable     bool      `json:"isEditable"`
	AllowDeletion  bool      `json:"allowDeletion"`
	RequireAccount bool      `json:"requireAccount"`
	CustomLink     string    `json:"customLink"`
	ExpiryDate     *string   `json:"expiryDate"`
}

// SubmitRequest представляет тело запроса на отправку ответа.
type SubmitRequest struct {
	Responses map[string]any `json:"responses"`
}

// PublishRequest управляет публикацией формы.
type PublishRequest struct {
	Published bool `json:"published"`
}

// FormWithExpired — форма плюс вычисляемый признак истечения.
type FormWithExpired struct {
	Form
	Expired bool `json:"expired"`
}

// MessageResponse — типовой ответ с сообщением.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse — типовой ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
