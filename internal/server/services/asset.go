package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
	"github.com/dmitrijs2005/assettrack/internal/server/objectstore"
	"github.com/dmitrijs2005/assettrack/internal/server/repositories/repomanager"
)

const dateLayout = "2006-01-02"

const defaultContentType = "application/octet-stream"

// CreateAssetInput is the payload for a new asset. PurchaseDate is YYYY-MM-DD.
type CreateAssetInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Category     string `json:"category" validate:"max=50"`
	PurchaseDate string `json:"purchase_date"`
	Status       string `json:"status" validate:"max=20"`
	Location     string `json:"location" validate:"max=100"`
}

// MaintenanceLogInput records a service visit. When NewStatus is set the
// asset's status is updated in the same transaction.
type MaintenanceLogInput struct {
	ServiceDate    string `json:"service_date" validate:"required"`
	TechnicianName string `json:"technician_name" validate:"max=100"`
	Description    string `json:"description" validate:"max=255"`
	Cost           string `json:"cost" validate:"required"`
	NewStatus      string `json:"new_status" validate:"max=20"`
}

type AttachmentInput struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"max=100"`
}

type statusInput struct {
	Status string `json:"status" validate:"required,max=20"`
}

// AttachmentTransfer pairs an attachment with a presigned URL for moving
// its bytes.
type AttachmentTransfer struct {
	Attachment *models.Attachment `json:"attachment"`
	URL        string             `json:"url"`
}

type AssetService struct {
	repomanager repomanager.RepositoryManager
	presigner   objectstore.Presigner
	logger      logging.Logger
	now         func() time.Time
}

func NewAssetService(m repomanager.RepositoryManager, presigner objectstore.Presigner, logger logging.Logger) *AssetService {
	return &AssetService{
		repomanager: m,
		presigner:   presigner,
		logger:      logger,
		now:         time.Now,
	}
}

func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fieldError(field, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func (s *AssetService) CreateAsset(ctx context.Context, userID int64, in CreateAssetInput) (*models.Asset, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	purchased, err := parseDate("purchase_date", in.PurchaseDate)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = common.DefaultAssetStatus
	}

	asset, err := s.repomanager.Assets().Create(ctx, &models.Asset{
		Name:         in.Name,
		Category:     in.Category,
		PurchaseDate: purchased,
		Status:       status,
		Location:     in.Location,
		CreatedBy:    userID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating asset: %w", err)
	}

	s.logger.Info(ctx, "asset created", "asset_id", asset.ID, "user_id", userID)
	return asset, nil
}

func (s *AssetService) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	return s.repomanager.Assets().List(ctx)
}

func (s *AssetService) GetAsset(ctx context.Context, id int64) (*models.Asset, error) {
	return s.repomanager.Assets().GetByID(ctx, id)
}

func (s *AssetService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Asset, error) {
	status = strings.TrimSpace(status)
	if err := validateStruct(statusInput{Status: status}); err != nil {
		return nil, err
	}
	return s.repomanager.Assets().UpdateStatus(ctx, id, status)
}

// DeleteAsset removes the asset together with its maintenance logs and
// attachment records. Objects already in the bucket are left in place.
func (s *AssetService) DeleteAsset(ctx context.Context, id int64) error {
	if err := s.repomanager.Assets().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "asset deleted", "asset_id", id)
	return nil
}

func (s *AssetService) AddMaintenanceLog(ctx context.Context, userID, assetID int64, in MaintenanceLogInput) (*models.MaintenanceLog, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	serviced, err := parseDate("service_date", in.ServiceDate)
	if err != nil {
		return nil, err
	}
	if serviced == nil {
		return nil, fieldError("service_date", "is required")
	}

	cost, err := models.ParseCents(in.Cost)
	if err != nil {
		return nil, fieldError("cost", "must be a non-negative amount with at most two decimals")
	}

	var created *models.MaintenanceLog
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		if _, err := tx.Assets().GetByID(ctx, assetID); err != nil {
			return err
		}

		// The status change goes first so a failed update never leaves a
		// log behind on stores without rollback.
		if status := strings.TrimSpace(in.NewStatus); status != "" {
			if _, err := tx.Assets().UpdateStatus(ctx, assetID, status); err != nil {
				return err
			}
		}

		log, err := tx.Maintenance().Create(ctx, &models.MaintenanceLog{
			AssetID:        assetID,
			ServiceDate:    *serviced,
			TechnicianName: in.TechnicianName,
			Description:    in.Description,
			Cost:           cost,
			CreatedBy:      userID,
		})
		if err != nil {
			return err
		}

		created = log
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *AssetService) ListMaintenanceLogs(ctx context.Context, assetID int64) ([]*models.MaintenanceLog, error) {
	if _, err := s.repomanager.Assets().GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	return s.repomanager.Maintenance().ListByAsset(ctx, assetID)
}

// CreateAttachment registers a pending attachment and returns a presigned
// PUT URL for its content.
func (s *AssetService) CreateAttachment(ctx context.Context, userID, assetID int64, in AttachmentInput) (*AttachmentTransfer, error) {
	in.FileName = path.Base(strings.TrimSpace(in.FileName))
	if in.FileName == "." || in.FileName == "/" {
		in.FileName = ""
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.ContentType == "" {
		in.ContentType = defaultContentType
	}

	if _, err := s.repomanager.Assets().GetByID(ctx, assetID); err != nil {
		return nil, err
	}

	key := objectstore.NewStorageKey(assetID, in.FileName, s.now())

	url, err := s.presigner.PresignPut(ctx, key, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	a, err := s.repomanager.Attachments().Create(ctx, &models.Attachment{
		AssetID:      assetID,
		FileName:     in.FileName,
		StorageKey:   key,
		ContentType:  in.ContentType,
		UploadStatus: models.UploadStatusPending,
		CreatedBy:    userID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating attachment: %w", err)
	}

	return &AttachmentTransfer{Attachment: a, URL: url}, nil
}

func (s *AssetService) ListAttachments(ctx context.Context, assetID int64) ([]*models.Attachment, error) {
	if _, err := s.repomanager.Assets().GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	return s.repomanager.Attachments().ListByAsset(ctx, assetID)
}

// GetAttachmentDownload returns the attachment and a presigned GET URL. An
// attachment whose upload was never confirmed is reported as not found.
func (s *AssetService) GetAttachmentDownload(ctx context.Context, assetID, id int64) (*AttachmentTransfer, error) {
	a, err := s.repomanager.Attachments().GetByID(ctx, assetID, id)
	if err != nil {
		return nil, err
	}
	if a.UploadStatus != models.UploadStatusUploaded {
		return nil, common.ErrorNotFound
	}

	url, err := s.presigner.PresignGet(ctx, a.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &AttachmentTransfer{Attachment: a, URL: url}, nil
}

func (s *AssetService) MarkAttachmentUploaded(ctx context.Context, assetID, id int64) (*models.Attachment, error) {
	a, err := s.repomanager.Attachments().MarkUploaded(ctx, assetID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return a, nil
}
