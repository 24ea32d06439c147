package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/export"
	"alcyxob/golf-coach/internal/repository"
	"alcyxob/golf-coach/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExportNotFound = errors.New("plan export not found")
	ErrExportFailed   = errors.New("failed to export plan")
)

// ExportResult is a stored export with a temporary download link.
type ExportResult struct {
	Export      *domain.PlanExport `json:"export"`
	DownloadURL string             `json:"downloadUrl"`
	ExpiresAt   time.Time          `json:"expiresAt"`
}

// ExportService renders plans as xlsx workbooks kept in object storage.
type ExportService interface {
	ExportPlan(ctx context.Context, actor Actor, planID primitive.ObjectID) (*ExportResult, error)
	ListExports(ctx context.Context, actor Actor, planID primitive.ObjectID) ([]domain.PlanExport, error)
	GetDownloadURL(ctx context.Context, actor Actor, exportID primitive.ObjectID) (*ExportResult, error)
}

type exportService struct {
	repos       PlanRepositories
	exportRepo  repository.ExportRepository
	fileStorage storage.FileStorage
	urlExpiry   time.Duration
	access      access
}

func NewExportService(repos PlanRepositories, exportRepo repository.ExportRepository, fileStorage storage.FileStorage, urlExpiry time.Duration) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		repos:       repos,
		exportRepo:  exportRepo,
		fileStorage: fileStorage,
		urlExpiry:   urlExpiry,
		access:      access{users: repos.Users, plans: repos.Plans},
	}
}

// ExportPlan uploads a fresh workbook of the plan and records its metadata.
// The uploaded object is removed again when the metadata cannot be stored.
func (s *exportService) ExportPlan(ctx context.Context, actor Actor, planID primitive.ObjectID) (*ExportResult, error) {
	plan, err := s.access.plan(ctx, actor, planID)
	if err != nil {
		return nil, err
	}
	data, err := s.collect(ctx, plan)
	if err != nil {
		return nil, err
	}

	buf, err := export.BuildPlanWorkbook(*data)
	if err != nil {
		log.Printf("ERROR: building workbook for plan %s: %v", planID.Hex(), err)
		return nil, ErrExportFailed
	}
	size := int64(buf.Len())

	objectKey := fmt.Sprintf("exports/%s/%s/%s.xlsx", plan.TenantID.Hex(), plan.ID.Hex(), uuid.NewString())
	if err := s.fileStorage.PutObject(ctx, objectKey, buf, size, export.ContentType); err != nil {
		log.Printf("ERROR: uploading export %s: %v", objectKey, err)
		return nil, ErrExportFailed
	}

	meta := &domain.PlanExport{
		AnnualPlanID: plan.ID,
		PlayerID:     plan.PlayerID,
		RequestedBy:  actor.UserID,
		S3ObjectKey:  objectKey,
		FileName:     exportFileName(plan),
		ContentType:  export.ContentType,
		Size:         size,
	}
	id, err := s.exportRepo.Create(ctx, meta)
	if err != nil {
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			log.Printf("WARN: orphaned export object %s: %v", objectKey, delErr)
		}
		return nil, fmt.Errorf("saving export metadata: %w", err)
	}
	meta.ID = id

	return s.withURL(ctx, meta)
}

func (s *exportService) ListExports(ctx context.Context, actor Actor, planID primitive.ObjectID) ([]domain.PlanExport, error) {
	if _, err := s.access.plan(ctx, actor, planID); err != nil {
		return nil, err
	}
	return s.exportRepo.GetByPlanID(ctx, planID)
}

func (s *exportService) GetDownloadURL(ctx context.Context, actor Actor, exportID primitive.ObjectID) (*ExportResult, error) {
	meta, err := s.exportRepo.GetByID(ctx, exportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	if _, err := s.access.plan(ctx, actor, meta.AnnualPlanID); err != nil {
		return nil, err
	}
	return s.withURL(ctx, meta)
}

func (s *exportService) withURL(ctx context.Context, meta *domain.PlanExport) (*ExportResult, error) {
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, meta.S3ObjectKey, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning download URL: %w", err)
	}
	return &ExportResult{
		Export:      meta,
		DownloadURL: url,
		ExpiresAt:   time.Now().UTC().Add(s.urlExpiry),
	}, nil
}

func (s *exportService) collect(ctx context.Context, plan *domain.AnnualPlan) (*export.PlanData, error) {
	player, err := s.repos.Users.GetByID(ctx, plan.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("loading player: %w", err)
	}
	weeks, err := s.repos.Weeks.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("loading periodization: %w", err)
	}
	tournaments, err := s.repos.Tournaments.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("loading tournaments: %w", err)
	}
	days, err := s.repos.Assignments.GetByPlanAndRange(ctx, plan.ID, plan.StartDate, plan.EndDate)
	if err != nil {
		return nil, fmt.Errorf("loading calendar: %w", err)
	}
	return &export.PlanData{
		Plan:        *plan,
		PlayerName:  player.Name,
		Weeks:       weeks,
		Tournaments: tournaments,
		Assignments: days,
	}, nil
}

func exportFileName(plan *domain.AnnualPlan) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '.':
			return '_'
		}
		return -1
	}, plan.PlanName)
	if name == "" {
		name = "annual_plan"
	}
	return fmt.Sprintf("%s_%s.xlsx", name, plan.StartDate.Format("2006-01-02"))
}
