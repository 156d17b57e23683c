package inventory

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/pharmstack/pharmacy-backend/internal/cron"
	"github.com/pharmstack/pharmacy-backend/internal/stock"
	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
	"github.com/pharmstack/pharmacy-backend/pkg/logger"
	"github.com/pharmstack/pharmacy-backend/pkg/mailer"
)

const (
	defaultThreshold = 10
	defaultSubject   = "Low Stock Medication Notification"
)

type lowStockLister interface {
	ListBelowThreshold(ctx context.Context, threshold int) ([]stock.LowStockRow, error)
}

type employeeLister interface {
	ListEmployeesByPharmacy(ctx context.Context, pharmacyID int64) ([]models.Employee, error)
}

// DispatchResult records the outcome of one notification send.
type DispatchResult struct {
	EmployeeID int64
	Recipient  string
	Err        error
}

// ScanJobParams configure the low-stock scan.
type ScanJobParams struct {
	Logger    *logger.Logger
	Stock     lowStockLister
	Directory employeeLister
	Notifier  mailer.Notifier
	Threshold int
	Subject   string
}

// NewScanJob builds the scheduled job that scans the stock ledger for
// shortages and mails every employee of each affected pharmacy.
func NewScanJob(params ScanJobParams) (cron.Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock lister required")
	}
	if params.Directory == nil {
		return nil, fmt.Errorf("employee lister required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	threshold := params.Threshold
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	subject := params.Subject
	if subject == "" {
		subject = defaultSubject
	}
	return &scanJob{
		logg:      params.Logger,
		stock:     params.Stock,
		directory: params.Directory,
		notifier:  params.Notifier,
		threshold: threshold,
		subject:   subject,
	}, nil
}

type scanJob struct {
	logg      *logger.Logger
	stock     lowStockLister
	directory employeeLister
	notifier  mailer.Notifier
	threshold int
	subject   string
}

func (j *scanJob) Name() string { return "low-stock-scan" }

// Run is a read-only snapshot scan. It never aborts on a single failed
// recipient; every send failure is logged and folded into the returned error.
func (j *scanJob) Run(ctx context.Context) error {
	rows, err := j.stock.ListBelowThreshold(ctx, j.threshold)
	if err != nil {
		return fmt.Errorf("scan stock ledger: %w", err)
	}
	if len(rows) == 0 {
		j.logg.Info(ctx, "no medications below threshold")
		return nil
	}

	var errs []error
	for _, group := range groupByPharmacy(rows) {
		pharmacyCtx := j.logg.WithPharmacyID(ctx, group.pharmacyID)
		j.logg.Info(j.logg.WithField(pharmacyCtx, "shortages", len(group.rows)), "pharmacy below stock threshold")

		employees, err := j.directory.ListEmployeesByPharmacy(ctx, group.pharmacyID)
		if err != nil {
			j.logg.Error(pharmacyCtx, "failed to load notification recipients", err)
			errs = append(errs, fmt.Errorf("pharmacy %d recipients: %w", group.pharmacyID, err))
			continue
		}
		if len(employees) == 0 {
			j.logg.Warn(pharmacyCtx, "pharmacy has shortages but no employees to notify")
			continue
		}

		body := renderShortageBody(group.pharmacyID, group.rows)
		for _, result := range j.dispatch(ctx, employees, body) {
			if result.Err == nil {
				continue
			}
			recipientCtx := j.logg.WithEmployeeID(pharmacyCtx, result.EmployeeID)
			recipientCtx = j.logg.WithField(recipientCtx, "recipient", result.Recipient)
			j.logg.Error(recipientCtx, "failed to send low stock notification", result.Err)
			errs = append(errs, fmt.Errorf("notify %s: %w", result.Recipient, result.Err))
		}
	}
	return multierr.Combine(errs...)
}

// dispatch sends one message per employee and returns every outcome.
func (j *scanJob) dispatch(ctx context.Context, employees []models.Employee, body string) []DispatchResult {
	results := make([]DispatchResult, 0, len(employees))
	for _, employee := range employees {
		err := j.notifier.Send(ctx, employee.Email, j.subject, body)
		results = append(results, DispatchResult{EmployeeID: employee.ID, Recipient: employee.Email, Err: err})
	}
	return results
}

type pharmacyShortages struct {
	pharmacyID int64
	rows       []stock.LowStockRow
}

// groupByPharmacy keeps the input's pharmacy ordering so message content and
// send order stay deterministic.
func groupByPharmacy(rows []stock.LowStockRow) []pharmacyShortages {
	var groups []pharmacyShortages
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.PharmacyID]
		if !ok {
			i = len(groups)
			index[row.PharmacyID] = i
			groups = append(groups, pharmacyShortages{pharmacyID: row.PharmacyID})
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	return groups
}

func renderShortageBody(pharmacyID int64, rows []stock.LowStockRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following medications are running low at pharmacy %d:\n\n", pharmacyID)
	for _, row := range rows {
		fmt.Fprintf(&b, "- #%d %s (%s), unit price %s: %d remaining\n",
			row.MedicationID, row.MedicationName, row.Form, row.Price.StringFixed(2), row.Quantity)
	}
	b.WriteString("\nPlease restock as soon as possible.\n")
	return b.String()
}
