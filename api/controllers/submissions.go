package controllers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmirandacr/vaultkeeper-backend/api/middleware"
	"github.com/rmirandacr/vaultkeeper-backend/api/responses"
	"github.com/rmirandacr/vaultkeeper-backend/api/validators"
	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/submissions"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

type submissionImageRequest struct {
	Data   string `json:"data" validate:"required"`
	Format string `json:"format" validate:"required"`
}

type submissionCreateRequest struct {
	Title          string                   `json:"title" validate:"required,max=255"`
	Description    string                   `json:"description"`
	Grade          *string                  `json:"grade"`
	GradingCompany *string                  `json:"grading_company"`
	EstimatedValue string                   `json:"estimated_value"`
	Images         []submissionImageRequest `json:"images" validate:"dive"`
}

func (r submissionCreateRequest) toInput(source string) (submissions.CreateSubmissionInput, error) {
	value := decimal.Zero
	if strings.TrimSpace(r.EstimatedValue) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(r.EstimatedValue))
		if err != nil {
			return submissions.CreateSubmissionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid estimated_value")
		}
		value = parsed
	}

	images := make([]submissions.ImageUpload, 0, len(r.Images))
	for _, img := range r.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return submissions.CreateSubmissionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image data")
		}
		images = append(images, submissions.ImageUpload{
			Data:   data,
			Format: strings.ToLower(strings.TrimSpace(img.Format)),
		})
	}

	return submissions.CreateSubmissionInput{
		Title:          strings.TrimSpace(r.Title),
		Description:    strings.TrimSpace(r.Description),
		Grade:          r.Grade,
		GradingCompany: r.GradingCompany,
		EstimatedValue: value,
		Images:         images,
		Source:         source,
	}, nil
}

// SubmissionCreate opens an intake submission for the authenticated user.
func SubmissionCreate(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userUUID, err := uuid.Parse(middleware.UserUUIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload submissionCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(middleware.AuthSourceFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), userUUID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// SubmissionList returns the authenticated user's submissions.
func SubmissionList(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userUUID, err := uuid.Parse(middleware.UserUUIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		page, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := submissions.ListSubmissionsInput{UserUUID: &userUUID, Page: page}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseSubmissionStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			input.Status = &status
		}

		rows, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// SubmissionGet returns one submission by id.
func SubmissionGet(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// SubmissionReceive marks a submission as physically received.
func SubmissionReceive(svc submissions.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
	return submissionTransition(resolver, logg, svc.Receive)
}

// SubmissionApprove approves a received submission for vaulting.
func SubmissionApprove(svc submissions.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
	return submissionTransition(resolver, logg, svc.Approve)
}

// SubmissionReject rejects a received submission.
func SubmissionReject(svc submissions.Service, resolver *ActorResolver, logg *logger.Logger) http.HandlerFunc {
	return submissionTransition(resolver, logg, svc.Reject)
}

func submissionTransition(
	resolver *ActorResolver,
	logg *logger.Logger,
	apply func(ctx context.Context, actor auditlog.Actor, id uint64) (*submissions.SubmissionDTO, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _, err := resolver.Resolve(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseIDParam(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := apply(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func parseIDParam(r *http.Request, name string) (uint64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

func parsePagination(r *http.Request) (pagination.Params, error) {
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 1000)
	if err != nil {
		return pagination.Params{}, err
	}
	descending, err := validators.ParseQueryBool(r, "desc", false)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Offset: offset, Limit: limit, Descending: descending}, nil
}
