package jobs

import (
	"context"
	"io"
	"time"

	"tenantvault-backend/internal/config"
	"tenantvault-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockCaseRepo
type MockCaseRepo struct {
	mock.Mock
}

func (m *MockCaseRepo) Create(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCaseRepo) GetByID(ctx context.Context, id int64) (*domain.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}
func (m *MockCaseRepo) Update(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCaseRepo) ListReminderCandidates(ctx context.Context, now time.Time) ([]domain.Case, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}
func (m *MockCaseRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Case, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}
func (m *MockCaseRepo) ListGraceExpired(ctx context.Context, now time.Time) ([]domain.Case, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}
func (m *MockCaseRepo) ListPendingFinalNotice(ctx context.Context) ([]domain.Case, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}
func (m *MockCaseRepo) DeleteCascade(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCaseRepo) CountByDeletionStatus(ctx context.Context) (map[domain.DeletionStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.DeletionStatus]int64), args.Error(1)
}

// MockAssetRepo
type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) Create(ctx context.Context, a *domain.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAssetRepo) ListByCase(ctx context.Context, caseID int64) ([]domain.Asset, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

// MockDeadlineRepo
type MockDeadlineRepo struct {
	mock.Mock
}

func (m *MockDeadlineRepo) Create(ctx context.Context, d *domain.Deadline) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDeadlineRepo) ListUpcoming(ctx context.Context, onOrAfter time.Time) ([]domain.Deadline, error) {
	args := m.Called(ctx, onOrAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deadline), args.Error(1)
}
func (m *MockDeadlineRepo) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, a *domain.PurgeAudit) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRetentionReminder(ctx context.Context, toEmail string, stay domain.StayType, level int32, daysRemaining int, caseTitle string) error {
	args := m.Called(ctx, toEmail, stay, level, daysRemaining, caseTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendFinalExpiryNotice(ctx context.Context, toEmail string, stay domain.StayType, caseTitle string, graceUntil time.Time) error {
	args := m.Called(ctx, toEmail, stay, caseTitle, graceUntil)
	return args.Error(0)
}
func (m *MockEmailService) SendStorageExtensionConfirmation(ctx context.Context, toEmail, caseTitle string, years int32, retentionUntil time.Time) error {
	args := m.Called(ctx, toEmail, caseTitle, years, retentionUntil)
	return args.Error(0)
}
func (m *MockEmailService) SendDeadlineReminder(ctx context.Context, toEmail, deadlineTitle string, dueDate time.Time, daysBefore int32) error {
	args := m.Called(ctx, toEmail, deadlineTitle, dueDate, daysBefore)
	return args.Error(0)
}

// MockStorageProvider
type MockStorageProvider struct {
	mock.Mock
}

func (m *MockStorageProvider) DeleteObjects(ctx context.Context, keys []string) ([]string, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockStorageProvider) SignedUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorageProvider) SignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorageProvider) Save(key string, reader io.Reader) error {
	args := m.Called(key, reader)
	return args.Error(0)
}
func (m *MockStorageProvider) Open(key string) (io.ReadCloser, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// testRunner builds a JobRunner with mock dependencies and a fixed clock.
func testRunner(now time.Time) (*JobRunner, *MockCaseRepo, *MockAssetRepo, *MockDeadlineRepo, *MockAuditRepo, *MockEmailService, *MockStorageProvider) {
	cases := new(MockCaseRepo)
	assets := new(MockAssetRepo)
	deadlines := new(MockDeadlineRepo)
	audits := new(MockAuditRepo)
	email := new(MockEmailService)
	store := new(MockStorageProvider)

	cfg := &config.Config{
		Retention: config.RetentionConfig{
			GraceDays:          30,
			ReminderLevel1Days: 60,
			ReminderLevel2Days: 30,
			ReminderLevel3Days: 7,
			ShortStayDays:      30,
			LongTermMonths:     12,
		},
	}

	runner := NewJobRunnerWithClock(
		&Repos{Cases: cases, Assets: assets, Deadlines: deadlines, Audits: audits},
		&Services{Email: email, Storage: store},
		cfg,
		func() time.Time { return now },
	)
	return runner, cases, assets, deadlines, audits, email, store
}
