package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/http/models"
	"github.com/api-sage/balance-ledger-service/src/internal/commons"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/api-sage/balance-ledger-service/src/internal/usecase/service_interfaces"
)

type BalanceController struct {
	service service_interfaces.LedgerService
}

func NewBalanceController(service service_interfaces.LedgerService) *BalanceController {
	return &BalanceController{service: service}
}

func (c *BalanceController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/balance/topup", wrap(c.topUp))
	mux.Handle("/balance/transfer", wrap(c.transfer))
	mux.Handle("/balance/history", wrap(c.history))
	mux.Handle("/balance", wrap(c.getBalance))
}

func (c *BalanceController) topUp(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TopUpResponse]("method not allowed"))
		return
	}

	var req models.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TopUpResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TopUpResponse]("validation failed", err.Error()))
		return
	}

	newBalance, err := c.service.TopUp(r.Context(), strings.TrimSpace(req.UserID), req.Amount)
	if err != nil {
		status, response := errorEnvelope[models.TopUpResponse](err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Balance topped up", models.TopUpResponse{
		UserID:     strings.TrimSpace(req.UserID),
		NewBalance: newBalance.StringFixed(2),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *BalanceController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TransferResponse]("method not allowed"))
		return
	}

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransferResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()))
		return
	}

	senderID := strings.TrimSpace(req.SenderID)
	receiverID := strings.TrimSpace(req.ReceiverID)

	newSenderBalance, err := c.service.Transfer(r.Context(), senderID, receiverID, req.Amount)
	if err != nil {
		status, response := errorEnvelope[models.TransferResponse](err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Transfer completed", models.TransferResponse{
		SenderID:         senderID,
		ReceiverID:       receiverID,
		Amount:           req.Amount.StringFixed(2),
		NewSenderBalance: newSenderBalance.StringFixed(2),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *BalanceController) getBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.BalanceResponse]("method not allowed"))
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.BalanceResponse]("validation failed", "userId query parameter is required"))
		return
	}

	amount, err := c.service.GetBalance(r.Context(), userID)
	if err != nil {
		status, response := errorEnvelope[models.BalanceResponse](err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Balance retrieved", models.BalanceResponse{
		UserID: userID,
		Amount: amount.StringFixed(2),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *BalanceController) history(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.HistoryResponse]("method not allowed"))
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.HistoryResponse]("validation failed", "userId query parameter is required"))
		return
	}

	records, err := c.service.ListHistory(r.Context(), userID)
	if err != nil {
		status, response := errorEnvelope[models.HistoryResponse](err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("History retrieved", models.NewHistoryResponse(userID, records))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

// errorEnvelope maps the service's closed error set to HTTP statuses. Any
// error outside the set is a store failure and is not surfaced verbatim.
func errorEnvelope[T any](err error) (int, commons.Response[T]) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidCounterparty):
		return http.StatusBadRequest, commons.ErrorResponse[T]("validation failed", err.Error())
	case errors.Is(err, domain.ErrCounterpartyNotFound):
		return http.StatusNotFound, commons.ErrorResponse[T]("Counterparty not found", err.Error())
	case errors.Is(err, domain.ErrBalanceNotFound):
		return http.StatusNotFound, commons.ErrorResponse[T]("Balance not found", err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, commons.ErrorResponse[T]("User not found", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, commons.ErrorResponse[T]("Insufficient funds", err.Error())
	default:
		return http.StatusInternalServerError, commons.ErrorResponse[T]("failed to process operation", "Unable to process the operation right now")
	}
}
