package requestresponse

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Username string `json:"username" example:"metalhead1"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// LoginResponse : ответ на успешную аутентификацию
type LoginResponse struct {
	Response struct {
		Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	} `json:"response"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserUUID string   `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Username string   `json:"username" example:"metalhead1"`
		Roles    []string `json:"roles" example:"ROLE_USER"`
	} `json:"response"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Response struct {
		LoggedOut bool `json:"logged_out" example:"true"`
	} `json:"response"`
}

// ErrorResponse : тело ошибки
type ErrorResponse struct {
	Error   string `json:"error" example:"Unauthorized"`
	Message string `json:"message" example:"не авторизован"`
	Code    int    `json:"code" example:"401"`
}
