package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/delivery/http/middleware"
	"clinic-appointment-service/internal/usecase"
	"clinic-appointment-service/pkg/response"
	"clinic-appointment-service/pkg/validator"
)

// AuthHandler exposes the three per-role login endpoints and their logouts.
type AuthHandler struct {
	adminUsecase   usecase.AdminUsecase
	doctorUsecase  usecase.DoctorUsecase
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewAuthHandler(
	adminUsecase usecase.AdminUsecase,
	doctorUsecase usecase.DoctorUsecase,
	patientUsecase usecase.PatientUsecase,
	validator *validator.CustomValidator,
) *AuthHandler {
	return &AuthHandler{
		adminUsecase:   adminUsecase,
		doctorUsecase:  doctorUsecase,
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.adminUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid username or password")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", token)
}

func (h *AuthHandler) DoctorLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.doctorUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid email or password")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", token)
}

func (h *AuthHandler) PatientLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.patientUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid email or password")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", token)
}

// Logout revokes the session behind the presented token. The route group's
// middleware already validated it, so the identity comes from context.
func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, h.adminUsecase.Logout)
}

func (h *AuthHandler) DoctorLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, h.doctorUsecase.Logout)
}

func (h *AuthHandler) PatientLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, h.patientUsecase.Logout)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request, revoke func(ctx context.Context, subject, tokenID string) error) {
	subjectID, ok := middleware.GetSubjectIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	if err := revoke(r.Context(), subjectID.String(), tokenID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}
