package service

import (
	"context"
	"time"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/repository"

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

// MockPurchaseRepo
type MockPurchaseRepo struct {
	mock.Mock
}

func (m *MockPurchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPurchaseRepo) ListByCase(ctx context.Context, caseID int64) ([]domain.Purchase, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}
func (m *MockPurchaseRepo) ExistsForPack(ctx context.Context, caseID int64, pack domain.PackType) (bool, error) {
	args := m.Called(ctx, caseID, pack)
	return args.Bool(0), args.Error(1)
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

// mockStore hands the same repositories to both direct calls and WithTx
// callbacks, so tests observe all writes a transaction would carry.
type mockStore struct {
	cases     *MockCaseRepo
	purchases *MockPurchaseRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		cases:     new(MockCaseRepo),
		purchases: new(MockPurchaseRepo),
	}
}

func (s *mockStore) Cases() repository.CaseRepository         { return s.cases }
func (s *mockStore) Purchases() repository.PurchaseRepository { return s.purchases }
func (s *mockStore) Assets() repository.AssetRepository       { return nil }
func (s *mockStore) Deadlines() repository.DeadlineRepository { return nil }
func (s *mockStore) Audits() repository.AuditRepository       { return nil }

func (s *mockStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}
