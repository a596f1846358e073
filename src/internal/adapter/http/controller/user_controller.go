package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/http/models"
	"github.com/api-sage/balance-ledger-service/src/internal/commons"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/api-sage/balance-ledger-service/src/internal/usecase/service_interfaces"
)

type UserController struct {
	service service_interfaces.UserService
}

func NewUserController(service service_interfaces.UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/users", wrap(c.register))
	mux.Handle("/users/verify-password", wrap(c.verifyPassword))
}

func (c *UserController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.RegisterUserResponse]("method not allowed"))
		return
	}

	var req models.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.RegisterUserResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.RegisterUserResponse]("validation failed", err.Error()))
		return
	}

	user, err := c.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		status, response := registerErrorEnvelope(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("User registered", models.RegisterUserResponse{
		ID:       user.ID,
		Username: user.Username,
		Balance:  "0.00",
	})
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *UserController) verifyPassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.VerifyPasswordResponse]("method not allowed"))
		return
	}

	var req models.VerifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.VerifyPasswordResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.VerifyPasswordResponse]("validation failed", err.Error()))
		return
	}

	user, valid, err := c.service.VerifyPassword(r.Context(), req.Username, req.Password)
	if err != nil {
		status, response := errorEnvelope[models.VerifyPasswordResponse](err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Password verified", models.VerifyPasswordResponse{
		UserID:          user.ID,
		Username:        req.Username,
		IsValidPassword: valid,
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func registerErrorEnvelope(err error) (int, commons.Response[models.RegisterUserResponse]) {
	if errors.Is(err, domain.ErrUsernameTaken) {
		return http.StatusConflict, commons.ErrorResponse[models.RegisterUserResponse]("validation failed", err.Error())
	}
	return errorEnvelope[models.RegisterUserResponse](err)
}
