package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде
}

// RegisterResponse представляет ответ на регистрацию (201 и 409)
type RegisterResponse struct {
	Message  string `json:"message"`  // сообщение о результате
	Username string `json:"username"` // username из запроса
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse представляет ответ на вход, в том числе неуспешный
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"` // JWT, только при success=true
	Success bool   `json:"success"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
