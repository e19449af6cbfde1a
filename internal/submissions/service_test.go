package submissions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/items"
	"github.com/rmirandacr/vaultkeeper-backend/internal/users"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/pagination"
)

func newSubmissionsService(t *testing.T, conn *gorm.DB, images imageStore, audit *stubAudit) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		items.NewRepository(conn),
		users.NewRepository(conn),
		newTestClient(conn),
		images,
		audit,
	)
	require.NoError(t, err)
	return svc
}

func TestCreateSubmissionUploadsAndPersists(t *testing.T) {
	conn := setupSubmissionsTestDB(t)
	store := &stubImageStore{}
	audit := &stubAudit{}
	svc := newSubmissionsService(t, conn, store, audit)
	ctx := context.Background()

	owner := uuid.New()
	dto, err := svc.Create(ctx, owner, CreateSubmissionInput{
		Title:          "1999 Holo Charizard",
		Description:    "PSA slab",
		EstimatedValue: decimal.NewFromInt(120000),
		Images: []ImageUpload{
			{Data: []byte("front"), Format: "jpg"},
			{Data: []byte("back"), Format: "jpg"},
		},
		Source: "auth0",
	})
	require.NoError(t, err)
	require.Equal(t, string(enums.SubmissionStatusSubmitted), dto.Status)
	require.Equal(t, owner, dto.UserUUID)
	require.Len(t, dto.ImageURLs, 2)
	require.Equal(t, 2, store.uploads)
	require.Equal(t, "1999 Holo Charizard", dto.Item.Title)
	require.Equal(t, string(enums.ItemStatusPending), dto.Item.Status)

	// lazy user creation on first reference
	user, err := users.NewRepository(conn).FindByUUID(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, "auth0", user.Source)

	require.Len(t, audit.entries, 1)
	require.Equal(t, enums.ActionSubmissionCreated, audit.entries[0].Action)
	require.Equal(t, enums.ActorTypeUser, audit.entries[0].Actor.Type)
}

func TestCreateSubmissionFailsWhenUploadFails(t *testing.T) {
	conn := setupSubmissionsTestDB(t)
	store := &stubImageStore{fail: context.DeadlineExceeded}
	svc := newSubmissionsService(t, conn, store, &stubAudit{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateSubmissionInput{
		Title:  "card",
		Images: []ImageUpload{{Data: []byte("x"), Format: "png"}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestApproveRequiresReceived(t *testing.T) {
	conn := setupSubmissionsTestDB(t)
	audit := &stubAudit{}
	svc := newSubmissionsService(t, conn, &stubImageStore{}, audit)
	ctx := context.Background()
	admin := auditlog.Actor{ID: 99, Type: enums.ActorTypeAdmin}

	dto, err := svc.Create(ctx, uuid.New(), CreateSubmissionInput{Title: "card"})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, admin, dto.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	require.Contains(t, typed.Message(), "not received yet")

	received, err := svc.Receive(ctx, admin, dto.ID)
	require.NoError(t, err)
	require.Equal(t, string(enums.SubmissionStatusReceived), received.Status)
	require.NotNil(t, received.ReceivedAt)
	require.Nil(t, received.ApprovedAt)

	approved, err := svc.Approve(ctx, admin, dto.ID)
	require.NoError(t, err)
	require.Equal(t, string(enums.SubmissionStatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	// earlier stamp untouched
	require.NotNil(t, approved.ReceivedAt)
}

func TestRejectRequiresReceived(t *testing.T) {
	conn := setupSubmissionsTestDB(t)
	svc := newSubmissionsService(t, conn, &stubImageStore{}, &stubAudit{})
	ctx := context.Background()
	admin := auditlog.Actor{ID: 99, Type: enums.ActorTypeAdmin}

	dto, err := svc.Create(ctx, uuid.New(), CreateSubmissionInput{Title: "card"})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, admin, dto.ID)
	require.Error(t, err)

	_, err = svc.Receive(ctx, admin, dto.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, admin, dto.ID)
	require.NoError(t, err)
	require.Equal(t, string(enums.SubmissionStatusRejected), rejected.Status)
	require.NotNil(t, rejected.RejectedAt)
}

func TestReceiveMissingSubmission(t *testing.T) {
	conn := setupSubmissionsTestDB(t)
	svc := newSubmissionsService(t, conn, &stubImageStore{}, &stubAudit{})

	_, err := svc.Receive(context.Background(), auditlog.Actor{ID: 1, Type: enums.ActorTypeAdmin}, 12345)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListByUserOrderingAndPagination(t *testing.T) {
	conn := setupSubmissionsTestDB(t)
	svc := newSubmissionsService(t, conn, &stubImageStore{}, &stubAudit{})
	ctx := context.Background()

	owner := uuid.New()
	first, err := svc.Create(ctx, owner, CreateSubmissionInput{Title: "first"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, CreateSubmissionInput{Title: "second"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), CreateSubmissionInput{Title: "other owner"})
	require.NoError(t, err)

	asc, err := svc.List(ctx, ListSubmissionsInput{UserUUID: &owner})
	require.NoError(t, err)
	require.Len(t, asc, 2)
	require.Equal(t, first.ID, asc[0].ID)
	require.Equal(t, second.ID, asc[1].ID)

	desc, err := svc.List(ctx, ListSubmissionsInput{
		UserUUID: &owner,
		Page:     pagination.Params{Descending: true},
	})
	require.NoError(t, err)
	require.Equal(t, second.ID, desc[0].ID)

	limited, err := svc.List(ctx, ListSubmissionsInput{
		UserUUID: &owner,
		Page:     pagination.Params{Offset: 1, Limit: 1},
	})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, second.ID, limited[0].ID)

	unknown := uuid.New()
	none, err := svc.List(ctx, ListSubmissionsInput{UserUUID: &unknown})
	require.NoError(t, err)
	require.Empty(t, none)
}
