package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/dkoval/warmap/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы.
// Детали ошибок хранилища наружу не отдаются.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeValidation), ve.Error())
	case errors.Is(err, domain.ErrUserExists):
		RespondWithError(w, r, http.StatusConflict, string(domain.CodeUserExists), "username already taken")
	case errors.Is(err, domain.ErrAlreadyMember):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeAlreadyMember), "already a member of this team")
	case errors.Is(err, domain.ErrTeamNotFound):
		RespondWithError(w, r, http.StatusNotFound, string(domain.CodeNotFound), "no such team")
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrMarkerNotFound), errors.Is(err, domain.ErrNotFound):
		RespondWithError(w, r, http.StatusNotFound, string(domain.CodeNotFound), "resource not found")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		RespondWithError(w, r, http.StatusUnauthorized, string(domain.CodeUnauthorized), "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		RespondWithError(w, r, http.StatusForbidden, string(domain.CodeForbidden), "forbidden")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, string(domain.CodeInternal), "internal server error")
	}
}
