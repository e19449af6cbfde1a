package vaultings

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmirandacr/vaultkeeper-backend/internal/auditlog"
	"github.com/rmirandacr/vaultkeeper-backend/internal/items"
	"github.com/rmirandacr/vaultkeeper-backend/internal/submissions"
	"github.com/rmirandacr/vaultkeeper-backend/internal/users"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/metrics"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/minting"
)

// MintConfirmation carries the fields a mint callback is allowed to set.
type MintConfirmation struct {
	ChainID    int64
	Collection string
	TokenID    string
	MintTxHash string
}

// BurnConfirmation carries the fields a burn callback is allowed to set.
type BurnConfirmation struct {
	BurnTxHash string
}

// Service drives the vaulting custody machine. Mint and burn calls leave the
// process, so they run outside the database transaction boundary; the
// job-id write that follows is where a reconciliation gap can open up.
type Service interface {
	Create(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*VaultingDTO, error)
	Get(ctx context.Context, itemUUID uuid.UUID) (*VaultingDTO, error)
	Withdraw(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*VaultingDTO, error)
	ConfirmMint(ctx context.Context, itemUUID uuid.UUID, conf MintConfirmation) error
	ConfirmBurn(ctx context.Context, itemUUID uuid.UUID, conf BurnConfirmation) error
}

type listingChecker interface {
	FindByVaultingID(ctx context.Context, vaultingID uint64) (*models.Listing, error)
}

type slotReleaser interface {
	ReleaseByItemID(ctx context.Context, itemID uint64) error
}

type imageReader interface {
	ReadObject(ctx context.Context, key string) ([]byte, error)
}

type service struct {
	repo      *Repository
	itemRepo  *items.Repository
	subRepo   *submissions.Repository
	userRepo  *users.Repository
	listings  listingChecker
	slots     slotReleaser
	dbClient  *db.Client
	minter    minting.Client
	images    imageReader
	audit     auditlog.Service
	logg      *logger.Logger
	lifecycle *metrics.LifecycleMetrics
}

// NewService constructs a vaultings service instance.
func NewService(
	repo *Repository,
	itemRepo *items.Repository,
	subRepo *submissions.Repository,
	userRepo *users.Repository,
	listings listingChecker,
	slots slotReleaser,
	dbClient *db.Client,
	minter minting.Client,
	images imageReader,
	audit auditlog.Service,
	logg *logger.Logger,
	lifecycle *metrics.LifecycleMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vaultings repository required")
	}
	if itemRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if subRepo == nil {
		return nil, fmt.Errorf("submissions repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing checker required")
	}
	if slots == nil {
		return nil, fmt.Errorf("slot releaser required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if minter == nil {
		return nil, fmt.Errorf("minting client required")
	}
	if images == nil {
		return nil, fmt.Errorf("image reader required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit log service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		itemRepo:  itemRepo,
		subRepo:   subRepo,
		userRepo:  userRepo,
		listings:  listings,
		slots:     slots,
		dbClient:  dbClient,
		minter:    minter,
		images:    images,
		audit:     audit,
		logg:      logg,
		lifecycle: lifecycle,
	}, nil
}

// Create vaults an approved item: persist the custody record as minting,
// request the external mint, then store the returned job id.
func (s *service) Create(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*VaultingDTO, error) {
	started := time.Now()

	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		s.observe("vault", started, err)
		return nil, err
	}

	var (
		vaulting *models.Vaulting
		sub      *models.Submission
	)
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txSubs := s.subRepo.WithTx(tx)

		current, findErr := txSubs.FindByItemID(ctx, item.ID)
		if findErr != nil {
			if db.IsNotFound(findErr) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found for item")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load submission")
		}
		if current.Status != enums.SubmissionStatusApproved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "submission not approved")
		}
		sub = current

		created, createErr := txRepo.Create(ctx, &models.Vaulting{
			ItemID: item.ID,
			UserID: item.UserID,
			Status: enums.VaultingStatusMinting,
		})
		if createErr != nil {
			if db.IsUniqueViolation(createErr) {
				return pkgerrors.New(pkgerrors.CodeConflict, "vaulting already exists for item")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "db: insert vaulting")
		}
		vaulting = created

		if markErr := txSubs.MarkVaulted(ctx, current.ID); markErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, markErr, "db: mark submission vaulted")
		}
		return nil
	})
	if err != nil {
		s.observe("vault", started, err)
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vaulting")
	}

	owner, err := s.userRepo.FindByID(ctx, item.UserID)
	if err != nil {
		s.observe("vault", started, err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item owner")
	}

	// External mint request, outside the transaction boundary.
	jobID, mintErr := s.minter.Mint(ctx, s.buildMintRequest(ctx, owner, item, sub))
	if mintErr != nil {
		s.observe("vault", started, mintErr)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, mintErr, "minting: mint request")
	}

	if setErr := s.repo.SetMintJob(ctx, vaulting.ID, jobID); setErr != nil {
		gap := s.reconciliationGap(ctx, "vault", itemUUID, jobID, setErr)
		s.observe("vault", started, gap)
		return nil, gap
	}
	jid := jobID
	vaulting.MintJobID = &jid

	s.audit.Record(ctx, auditlog.Entry{
		Action:     enums.ActionVaultingCreated,
		Actor:      actor,
		EntityID:   vaulting.ID,
		EntityType: enums.EntityTypeVaulting,
		Payload: map[string]any{
			"item_uuid":   itemUUID,
			"mint_job_id": jobID,
			"status":      enums.VaultingStatusMinting,
		},
	})

	s.observe("vault", started, nil)
	return NewVaultingDTO(vaulting, itemUUID), nil
}

func (s *service) Get(ctx context.Context, itemUUID uuid.UUID) (*VaultingDTO, error) {
	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		return nil, err
	}
	vaulting, err := s.repo.FindByItemID(ctx, item.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vaulting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vaulting")
	}
	return NewVaultingDTO(vaulting, itemUUID), nil
}

// Withdraw requests the external burn for a minted vaulting with no active
// listing, then stores the burn job id and moves the record to withdrawing.
func (s *service) Withdraw(ctx context.Context, actor auditlog.Actor, itemUUID uuid.UUID) (*VaultingDTO, error) {
	started := time.Now()

	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		s.observe("withdraw", started, err)
		return nil, err
	}

	var vaulting *models.Vaulting
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		current, findErr := txRepo.FindByItemID(ctx, item.ID)
		if findErr != nil {
			if db.IsNotFound(findErr) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vaulting not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load vaulting")
		}
		if current.Status != enums.VaultingStatusMinted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vaulting not minted")
		}
		if current.Collection == nil || current.TokenID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vaulting missing token identity")
		}

		listing, listErr := s.listings.FindByVaultingID(ctx, current.ID)
		if listErr != nil && !db.IsNotFound(listErr) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, listErr, "db: load listing")
		}
		if listing != nil && listing.Status != enums.ListingStatusNotListed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "active listing blocks withdrawal")
		}

		vaulting = current
		return nil
	})
	if err != nil {
		s.observe("withdraw", started, err)
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "withdraw vaulting")
	}

	jobID, burnErr := s.minter.Burn(ctx, minting.BurnRequest{
		ItemUUID:   itemUUID,
		Collection: *vaulting.Collection,
		TokenID:    *vaulting.TokenID,
	})
	if burnErr != nil {
		s.observe("withdraw", started, burnErr)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, burnErr, "minting: burn request")
	}

	now := time.Now().UTC()
	if setErr := s.repo.SetWithdrawing(ctx, vaulting.ID, jobID, now); setErr != nil {
		gap := s.reconciliationGap(ctx, "withdraw", itemUUID, jobID, setErr)
		s.observe("withdraw", started, gap)
		return nil, gap
	}
	jid := jobID
	vaulting.BurnJobID = &jid
	vaulting.Status = enums.VaultingStatusWithdrawing
	vaulting.UpdatedAt = now

	s.audit.Record(ctx, auditlog.Entry{
		Action:     enums.ActionVaultingWithdraw,
		Actor:      actor,
		EntityID:   vaulting.ID,
		EntityType: enums.EntityTypeVaulting,
		Payload: map[string]any{
			"item_uuid":   itemUUID,
			"burn_job_id": jobID,
		},
	})

	s.observe("withdraw", started, nil)
	return NewVaultingDTO(vaulting, itemUUID), nil
}

// ConfirmMint applies an asynchronous mint confirmation: minting -> minted.
func (s *service) ConfirmMint(ctx context.Context, itemUUID uuid.UUID, conf MintConfirmation) error {
	started := time.Now()

	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		s.observe("confirm_mint", started, err)
		return err
	}

	var vaulting *models.Vaulting
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txItems := s.itemRepo.WithTx(tx)

		current, findErr := txRepo.FindByItemID(ctx, item.ID)
		if findErr != nil {
			if db.IsNotFound(findErr) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vaulting not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load vaulting")
		}
		if current.Status != enums.VaultingStatusMinting {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vaulting not minting")
		}

		now := time.Now().UTC()
		if confirmErr := txRepo.ConfirmMint(ctx, current.ID, conf.ChainID, conf.Collection, conf.TokenID, conf.MintTxHash, now); confirmErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, confirmErr, "db: confirm mint")
		}
		if statusErr := txItems.UpdateStatus(ctx, item.ID, enums.ItemStatusVaulted); statusErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, statusErr, "db: update item status")
		}
		vaulting = current
		return nil
	})
	if err != nil {
		s.observe("confirm_mint", started, err)
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm mint")
	}

	s.audit.Record(ctx, auditlog.Entry{
		Action:     enums.ActionVaultingMinted,
		Actor:      auditlog.APIActor(),
		EntityID:   vaulting.ID,
		EntityType: enums.EntityTypeVaulting,
		Payload: map[string]any{
			"item_uuid":  itemUUID,
			"chain_id":   conf.ChainID,
			"collection": strings.ToLower(conf.Collection),
			"token_id":   conf.TokenID,
		},
	})

	s.observe("confirm_mint", started, nil)
	return nil
}

// ConfirmBurn applies an asynchronous burn confirmation: withdrawing -> withdrawn.
func (s *service) ConfirmBurn(ctx context.Context, itemUUID uuid.UUID, conf BurnConfirmation) error {
	started := time.Now()

	item, err := s.loadItem(ctx, itemUUID)
	if err != nil {
		s.observe("confirm_burn", started, err)
		return err
	}

	var vaulting *models.Vaulting
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txItems := s.itemRepo.WithTx(tx)

		current, findErr := txRepo.FindByItemID(ctx, item.ID)
		if findErr != nil {
			if db.IsNotFound(findErr) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vaulting not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load vaulting")
		}
		if current.Status != enums.VaultingStatusWithdrawing {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vaulting not withdrawing")
		}

		now := time.Now().UTC()
		if confirmErr := txRepo.ConfirmBurn(ctx, current.ID, conf.BurnTxHash, now); confirmErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, confirmErr, "db: confirm burn")
		}
		if statusErr := txItems.UpdateStatus(ctx, item.ID, enums.ItemStatusWithdrawn); statusErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, statusErr, "db: update item status")
		}
		vaulting = current
		return nil
	})
	if err != nil {
		s.observe("confirm_burn", started, err)
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm burn")
	}

	// The physical slot is freed once custody ends. Best-effort; the slot
	// can be released by an operator if this misses.
	if releaseErr := s.slots.ReleaseByItemID(ctx, item.ID); releaseErr != nil && !db.IsNotFound(releaseErr) {
		s.logg.Error(s.logg.WithItemUUID(ctx, itemUUID.String()), "vaultings: release inventory slot", releaseErr)
	}

	s.audit.Record(ctx, auditlog.Entry{
		Action:     enums.ActionVaultingWithdrawn,
		Actor:      auditlog.APIActor(),
		EntityID:   vaulting.ID,
		EntityType: enums.EntityTypeVaulting,
		Payload: map[string]any{
			"item_uuid":    itemUUID,
			"burn_tx_hash": conf.BurnTxHash,
		},
	})

	s.observe("confirm_burn", started, nil)
	return nil
}

func (s *service) loadItem(ctx context.Context, itemUUID uuid.UUID) (*models.Item, error) {
	item, err := s.itemRepo.FindByUUID(ctx, itemUUID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	return item, nil
}

func (s *service) buildMintRequest(ctx context.Context, owner *models.User, item *models.Item, sub *models.Submission) minting.MintRequest {
	req := minting.MintRequest{
		Owner:       owner.UUID.String(),
		ItemUUID:    item.UUID,
		Title:       item.Title,
		Description: item.Description,
		Attributes:  map[string]string{},
	}
	if item.Grade != nil {
		req.Attributes["grade"] = *item.Grade
	}
	if item.GradingCompany != nil {
		req.Attributes["grading_company"] = *item.GradingCompany
	}
	if !item.EstimatedValue.IsZero() {
		req.Attributes["estimated_value"] = item.EstimatedValue.String()
	}

	if len(sub.ImageURLs) > 0 {
		key := sub.ImageURLs[0]
		data, err := s.images.ReadObject(ctx, key)
		if err != nil {
			// Token art is optional on the mint side; mint without it
			// rather than blocking custody.
			s.logg.Warn(s.logg.WithItemUUID(ctx, item.UUID.String()), "vaultings: read item image failed")
		} else {
			req.ImageData = data
			req.ImageFormat = imageFormat(key)
		}
	}
	return req
}

// reconciliationGap marks the state where the external call succeeded but the
// local write did not: logged distinctly so an operator can reconcile.
func (s *service) reconciliationGap(ctx context.Context, transition string, itemUUID uuid.UUID, jobID string, cause error) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"transition": transition,
		"item_uuid":  itemUUID.String(),
		"job_id":     jobID,
	})
	s.logg.Error(ctx, "vaultings: reconciliation gap", cause)
	if s.lifecycle != nil {
		s.lifecycle.IncReconciliationGap(transition)
	}
	return pkgerrors.Wrap(pkgerrors.CodeReconciliation, cause, "local write failed after external call succeeded")
}

func (s *service) observe(transition string, started time.Time, err error) {
	if s.lifecycle == nil {
		return
	}
	s.lifecycle.ObserveDuration(transition, time.Since(started))
	if err != nil {
		s.lifecycle.IncFailure(transition)
		return
	}
	s.lifecycle.IncSuccess(transition)
}

func imageFormat(key string) string {
	ext := strings.TrimPrefix(path.Ext(key), ".")
	if ext == "" {
		return "png"
	}
	return strings.ToLower(ext)
}
