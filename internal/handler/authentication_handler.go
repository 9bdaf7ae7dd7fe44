package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"metal-tracker/internal/model/requestresponse"
	"metal-tracker/internal/ports"
	"metal-tracker/internal/security"
	"metal-tracker/internal/util"
)

type AuthenticationHandler struct {
	ports.AuthenticationServiceInterface
	cookieName string
}

func NewAuthenticationHandler(
	authenticationService ports.AuthenticationServiceInterface,
	cookieName string,
) *AuthenticationHandler {
	if cookieName == "" {
		cookieName = security.DefaultCookieName
	}
	return &AuthenticationHandler{
		authenticationService,
		cookieName,
	}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение access токена по логину и паролю. Дополнительно выставляет remember-me куку для автоматического входа.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса" example({"username": "metalhead1", "password": "StrongPass123!"})
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный логин или пароль"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		util.HandleError(w, "username и password обязательны", http.StatusBadRequest)
		return
	}

	accessToken, cookie, err := h.AuthenticationServiceInterface.Login(ctx, req.Username, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не найден"):
			util.HandleError(w, "пользователь не найден", http.StatusNotFound)
		case strings.Contains(err.Error(), "неверный логин или пароль"):
			util.HandleError(w, "неверный логин или пароль", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	security.WriteRememberMeCookie(w, h.cookieName, cookie)

	resp := requestresponse.LoginResponse{}
	resp.Response.Token = accessToken

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetCurrentUser godoc
// @Summary Текущий пользователь
// @Description Возвращает принципала текущего запроса (после входа по паролю или автологина по remember-me куке)
// @Tags Authentication
// @Produce json
// @Param Authorization header string false "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	identity, err := security.GetIdentityFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = identity.UserUUID
	resp.Response.Username = identity.Username
	resp.Response.Roles = identity.Roles

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetCurrentUserHead godoc
// @Summary Текущий пользователь
// @Tags Authentication
// @Success 200
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [head]
func (h *AuthenticationHandler) GetCurrentUserHead(w http.ResponseWriter, r *http.Request) {
	h.GetCurrentUser(w, r)
}

// Logout godoc
// @Summary Завершение сессии на всех устройствах
// @Description Удаляет все remember-me цепочки пользователя и гасит куку. Выход выполняется сразу со всех устройств.
// @Tags Authentication
// @Produce json
// @Param Authorization header string false "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth [delete]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	identity, err := security.GetIdentityFromContext(ctx)
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.AuthenticationServiceInterface.Logout(ctx, identity); err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	security.ClearRememberMeCookie(w, h.cookieName)

	resp := requestresponse.LogoutResponse{}
	resp.Response.LoggedOut = true

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("ошибка кодирования ответа:", err)
	}
}
