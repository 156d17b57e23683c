package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
	pkgerrors "github.com/pharmstack/pharmacy-backend/pkg/errors"
)

// Repository counts how often each named report is requested.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Record bumps the request counter for the report, creating the row on first
// use, and stamps the request time.
func (r *Repository) Record(ctx context.Context, reportName string) error {
	if reportName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "report name required")
	}
	row := models.ReportRequest{
		ReportName:      reportName,
		RequestCount:    1,
		LastRequestDate: r.now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "report_name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"request_count":     gorm.Expr("request_count + 1"),
				"last_request_date": row.LastRequestDate,
			}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("record report request: %w", err)
	}
	return nil
}

// Get loads the counter row for one report name.
func (r *Repository) Get(ctx context.Context, reportName string) (*models.ReportRequest, error) {
	var row models.ReportRequest
	err := r.db.WithContext(ctx).
		First(&row, "report_name = ?", reportName).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "report has never been requested").
				WithDetails(map[string]string{"report_name": reportName})
		}
		return nil, fmt.Errorf("get report request: %w", err)
	}
	return &row, nil
}

// List returns every report counter, most requested first.
func (r *Repository) List(ctx context.Context) ([]models.ReportRequest, error) {
	var rows []models.ReportRequest
	err := r.db.WithContext(ctx).
		Order("request_count DESC, report_name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list report requests: %w", err)
	}
	return rows, nil
}
