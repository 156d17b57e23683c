package inventory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pharmstack/pharmacy-backend/internal/stock"
	"github.com/pharmstack/pharmacy-backend/pkg/db/models"
	"github.com/pharmstack/pharmacy-backend/pkg/enums"
	"github.com/pharmstack/pharmacy-backend/pkg/logger"
)

type fakeStockLister struct {
	rows      []stock.LowStockRow
	err       error
	lastCall  int
	callCount int
}

func (f *fakeStockLister) ListBelowThreshold(ctx context.Context, threshold int) ([]stock.LowStockRow, error) {
	f.lastCall = threshold
	f.callCount++
	return f.rows, f.err
}

type fakeEmployeeLister struct {
	byPharmacy map[int64][]models.Employee
	errFor     map[int64]error
}

func (f *fakeEmployeeLister) ListEmployeesByPharmacy(ctx context.Context, pharmacyID int64) ([]models.Employee, error) {
	if err, ok := f.errFor[pharmacyID]; ok {
		return nil, err
	}
	return f.byPharmacy[pharmacyID], nil
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

type fakeNotifier struct {
	sent   []sentMessage
	failTo map[string]error
}

func (f *fakeNotifier) Send(ctx context.Context, to, subject, body string) error {
	if err, ok := f.failTo[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func lowRow(pharmacyID, medicationID int64, name string, qty int) stock.LowStockRow {
	return stock.LowStockRow{
		PharmacyID:     pharmacyID,
		MedicationID:   medicationID,
		MedicationName: name,
		Form:           enums.MedicationFormTablet,
		Price:          decimal.RequireFromString("4.50"),
		Quantity:       qty,
	}
}

func newScanJob(t *testing.T, lister *fakeStockLister, employees *fakeEmployeeLister, notifier *fakeNotifier) *scanJob {
	t.Helper()
	job, err := NewScanJob(ScanJobParams{
		Logger:    testLogger(),
		Stock:     lister,
		Directory: employees,
		Notifier:  notifier,
		Threshold: 10,
	})
	if err != nil {
		t.Fatalf("new scan job: %v", err)
	}
	return job.(*scanJob)
}

func TestScanJobNotifiesEveryEmployeeOncePerPharmacy(t *testing.T) {
	lister := &fakeStockLister{rows: []stock.LowStockRow{
		lowRow(1, 10, "Aspirin", 3),
		lowRow(1, 11, "Cetirizine", 7),
		lowRow(2, 12, "Insulin", 0),
	}}
	employees := &fakeEmployeeLister{byPharmacy: map[int64][]models.Employee{
		1: {
			{ID: 100, Email: "dana@example.com", PharmacyID: 1},
			{ID: 101, Email: "riley@example.com", PharmacyID: 1},
		},
		2: {
			{ID: 200, Email: "sam@example.com", PharmacyID: 2},
		},
	}}
	notifier := &fakeNotifier{}

	job := newScanJob(t, lister, employees, notifier)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if lister.lastCall != 10 {
		t.Fatalf("expected threshold 10 passed to lister, got %d", lister.lastCall)
	}
	if len(notifier.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(notifier.sent))
	}

	seen := map[string]int{}
	for _, msg := range notifier.sent {
		seen[msg.to]++
		if msg.subject != defaultSubject {
			t.Fatalf("unexpected subject %q", msg.subject)
		}
	}
	for _, to := range []string{"dana@example.com", "riley@example.com", "sam@example.com"} {
		if seen[to] != 1 {
			t.Fatalf("expected exactly one message to %s, got %d", to, seen[to])
		}
	}

	// each message lists only that pharmacy's shortages
	for _, msg := range notifier.sent {
		switch msg.to {
		case "sam@example.com":
			if !strings.Contains(msg.body, "Insulin") || strings.Contains(msg.body, "Aspirin") {
				t.Fatalf("pharmacy 2 body wrong:\n%s", msg.body)
			}
		default:
			if !strings.Contains(msg.body, "Aspirin") || !strings.Contains(msg.body, "Cetirizine") {
				t.Fatalf("pharmacy 1 body missing shortages:\n%s", msg.body)
			}
			if strings.Contains(msg.body, "Insulin") {
				t.Fatalf("pharmacy 1 body leaked another pharmacy's shortage:\n%s", msg.body)
			}
		}
	}
}

func TestScanJobNoShortagesSendsNothing(t *testing.T) {
	lister := &fakeStockLister{}
	notifier := &fakeNotifier{}
	job := newScanJob(t, lister, &fakeEmployeeLister{}, notifier)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no messages, got %d", len(notifier.sent))
	}
}

func TestScanJobPartialSendFailureContinues(t *testing.T) {
	lister := &fakeStockLister{rows: []stock.LowStockRow{lowRow(1, 10, "Aspirin", 3)}}
	employees := &fakeEmployeeLister{byPharmacy: map[int64][]models.Employee{
		1: {
			{ID: 100, Email: "dana@example.com", PharmacyID: 1},
			{ID: 101, Email: "riley@example.com", PharmacyID: 1},
		},
	}}
	notifier := &fakeNotifier{failTo: map[string]error{
		"dana@example.com": errors.New("mailbox unavailable"),
	}}

	job := newScanJob(t, lister, employees, notifier)
	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected the failed send to surface in the job result")
	}
	if !strings.Contains(err.Error(), "dana@example.com") {
		t.Fatalf("error should name the failed recipient: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].to != "riley@example.com" {
		t.Fatalf("remaining recipient must still be notified: %+v", notifier.sent)
	}
}

func TestScanJobRecipientLookupFailureDoesNotStopOtherPharmacies(t *testing.T) {
	lister := &fakeStockLister{rows: []stock.LowStockRow{
		lowRow(1, 10, "Aspirin", 3),
		lowRow(2, 12, "Insulin", 0),
	}}
	employees := &fakeEmployeeLister{
		byPharmacy: map[int64][]models.Employee{
			2: {{ID: 200, Email: "sam@example.com", PharmacyID: 2}},
		},
		errFor: map[int64]error{1: errors.New("connection reset")},
	}
	notifier := &fakeNotifier{}

	job := newScanJob(t, lister, employees, notifier)
	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected recipient lookup failure to surface")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].to != "sam@example.com" {
		t.Fatalf("other pharmacy must still be notified: %+v", notifier.sent)
	}
}

func TestScanJobSkipsPharmaciesWithoutStaff(t *testing.T) {
	lister := &fakeStockLister{rows: []stock.LowStockRow{lowRow(3, 10, "Aspirin", 1)}}
	notifier := &fakeNotifier{}
	job := newScanJob(t, lister, &fakeEmployeeLister{}, notifier)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("a staffless pharmacy is not an error: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no messages, got %d", len(notifier.sent))
	}
}

func TestScanJobDispatchReportsEveryOutcome(t *testing.T) {
	notifier := &fakeNotifier{failTo: map[string]error{
		"dana@example.com": errors.New("boom"),
	}}
	job := newScanJob(t, &fakeStockLister{}, &fakeEmployeeLister{}, notifier)

	results := job.dispatch(context.Background(), []models.Employee{
		{ID: 11, Email: "dana@example.com"},
		{ID: 12, Email: "riley@example.com"},
	}, "body")

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].EmployeeID != 11 || results[0].Recipient != "dana@example.com" || results[0].Err == nil {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].EmployeeID != 12 || results[1].Recipient != "riley@example.com" || results[1].Err != nil {
		t.Fatalf("unexpected second result: %+v", results[1])
	}
}
