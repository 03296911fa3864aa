package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"maintenance-agent/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

const (
	routeMaintenance   = "/check_maintenance"
	routeInductions    = "/check_inductions"
	routeConversations = "/conversations"
)

// UseCase is the set of operations exposed over API Gateway.
type UseCase interface {
	CheckMaintenance(ctx context.Context, in usecase.MaintenanceInput) (usecase.MaintenanceOutput, error)
	CheckInductions(ctx context.Context, in usecase.InductionInput) (usecase.InductionOutput, error)
	HandleContact(ctx context.Context, in usecase.ContactInput) (usecase.ContactOutput, error)
}

type Handler struct {
	uc     UseCase
	logger *slog.Logger
}

func NewHandler(uc UseCase, logger *slog.Logger) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{uc: uc, logger: logger}, nil
}

// Handle routes an API Gateway proxy request. Failures are always rendered as
// JSON responses; the returned error is reserved for the Lambda runtime and is nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(req.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = newCorrelationID()
	}
	route := strings.TrimRight(req.Path, "/")

	var (
		status int
		body   any
		err    error
	)
	switch route {
	case routeMaintenance, routeInductions, routeConversations:
		if req.HTTPMethod != http.MethodPost {
			status, body = http.StatusMethodNotAllowed, errorResponse{Error: "METHOD_NOT_ALLOWED"}
			break
		}
		status, body, err = h.dispatch(ctx, route, req.Body)
	default:
		status, body = http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}
	}

	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) {
			status, body = statusFor(ucErr.Code), errorResponse{Error: string(ucErr.Code), Reason: ucErr.Reason}
		} else {
			status, body = http.StatusInternalServerError, errorResponse{Error: string(usecase.ErrorInternal)}
		}
	}

	attrs := []any{"correlation_id", correlationID, "route", route, "status", status}
	if err != nil {
		h.logger.ErrorContext(ctx, "request failed", append(attrs, "err", err)...)
	} else {
		h.logger.InfoContext(ctx, "request handled", attrs...)
	}
	return respond(status, correlationID, body), nil
}

func (h *Handler) dispatch(ctx context.Context, route, raw string) (int, any, error) {
	switch route {
	case routeMaintenance:
		var req maintenanceRequest
		if err := decode(raw, &req); err != nil {
			return 0, nil, err
		}
		out, err := h.uc.CheckMaintenance(ctx, usecase.MaintenanceInput{
			Equipment:     req.EquipmentName,
			Company:       req.CompanyName,
			RequestedDate: req.RequestedDate,
			Address:       req.Email,
			Subject:       req.Subject,
		})
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, newMaintenanceResponse(out), nil

	case routeInductions:
		var req inductionRequest
		if err := decode(raw, &req); err != nil {
			return 0, nil, err
		}
		out, err := h.uc.CheckInductions(ctx, usecase.InductionInput{
			Company:         req.Company,
			Engineers:       req.Engineers,
			MaintenanceDate: req.MaintenanceDate,
		})
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, newInductionResponse(out), nil

	default:
		var req contactRequest
		if err := decode(raw, &req); err != nil {
			return 0, nil, err
		}
		out, err := h.uc.HandleContact(ctx, usecase.ContactInput{
			Address:           req.Email,
			Subject:           req.Subject,
			AttachmentPresent: bool(req.AttachmentPresent),
			EngineerNames:     req.EngineerNames,
		})
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, newContactResponse(out), nil
	}
}

func decode(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "invalid_json", Err: err}
	}
	return nil
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	case usecase.ErrorConflict:
		return http.StatusConflict
	case usecase.ErrorUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respond(status int, correlationID string, body any) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: correlationID,
		},
		Body: string(payload),
	}
}

// headerValue looks a header up case-insensitively; API Gateway preserves
// whatever casing the client sent.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

var newCorrelationID = func() string {
	return uuid.NewString()
}
