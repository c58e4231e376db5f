package jobs

import (
	"errors"
	"testing"
	"time"

	"tenantvault-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func graceExpiredCase(id int64) domain.Case {
	grace := scanTime.Add(-1 * time.Hour)
	retention := scanTime.AddDate(0, 0, -31)
	notified := scanTime.AddDate(0, 0, -30)
	return domain.Case{
		ID:                    id,
		OwnerID:               20,
		OwnerEmail:            "tenant@example.com",
		Title:                 "Gartenweg 3",
		StayType:              domain.StayTypeLongTerm,
		RetentionUntil:        &retention,
		DeletionStatus:        domain.DeletionStatusPendingDeletion,
		GraceUntil:            &grace,
		FinalExpiryNotifiedAt: &notified,
	}
}

func TestPurgeExpiredCases_DeletesObjectsThenRow(t *testing.T) {
	runner, cases, assets, _, audits, _, store := testRunner(scanTime)

	c := graceExpiredCase(30)
	cases.On("ListGraceExpired", mock.Anything, scanTime).Return([]domain.Case{c}, nil)
	assets.On("ListByCase", mock.Anything, int64(30)).Return([]domain.Asset{
		{ID: 1, CaseID: 30, StorageKey: "cases/30/checkin/door.jpg"},
		{ID: 2, CaseID: 30, StorageKey: "cases/30/handover/meter.mp4"},
	}, nil)
	store.On("DeleteObjects", mock.Anything, []string{"cases/30/checkin/door.jpg", "cases/30/handover/meter.mp4"}).
		Return([]string{}, nil)
	audits.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.PurgeAudit) bool {
		return a.Event == domain.AuditEventPurge &&
			a.CaseID == 30 &&
			a.OwnerID == 20 &&
			a.AssetCount == 2 &&
			a.OccurredOn.Equal(scanTime) &&
			a.ID != ""
	})).Return(nil)
	cases.On("DeleteCascade", mock.Anything, int64(30)).Return(nil)

	runner.PurgeExpiredCases()

	cases.AssertExpectations(t)
	assets.AssertExpectations(t)
	audits.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestPurgeExpiredCases_StorageFailureDoesNotBlockPurge(t *testing.T) {
	runner, cases, assets, _, audits, _, store := testRunner(scanTime)

	c := graceExpiredCase(31)
	cases.On("ListGraceExpired", mock.Anything, scanTime).Return([]domain.Case{c}, nil)
	assets.On("ListByCase", mock.Anything, int64(31)).Return([]domain.Asset{
		{ID: 3, CaseID: 31, StorageKey: "cases/31/checkin/wall.jpg"},
	}, nil)
	store.On("DeleteObjects", mock.Anything, []string{"cases/31/checkin/wall.jpg"}).
		Return([]string{"cases/31/checkin/wall.jpg"}, errors.New("bucket unavailable"))
	audits.On("Create", mock.Anything, mock.Anything).Return(nil)
	cases.On("DeleteCascade", mock.Anything, int64(31)).Return(nil)

	runner.PurgeExpiredCases()

	// The orphaned object is logged; the row is gone regardless.
	cases.AssertCalled(t, "DeleteCascade", mock.Anything, int64(31))
}

func TestPurgeExpiredCases_AuditFailureDoesNotBlockPurge(t *testing.T) {
	runner, cases, assets, _, audits, _, store := testRunner(scanTime)

	c := graceExpiredCase(32)
	cases.On("ListGraceExpired", mock.Anything, scanTime).Return([]domain.Case{c}, nil)
	assets.On("ListByCase", mock.Anything, int64(32)).Return([]domain.Asset{}, nil)
	audits.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit table full"))
	cases.On("DeleteCascade", mock.Anything, int64(32)).Return(nil)

	runner.PurgeExpiredCases()

	cases.AssertCalled(t, "DeleteCascade", mock.Anything, int64(32))
	// No assets, so storage is never touched.
	store.AssertNotCalled(t, "DeleteObjects", mock.Anything, mock.Anything)
}

func TestPurgeExpiredCases_RowDeleteFailureLeavesOtherCasesUnaffected(t *testing.T) {
	runner, cases, assets, _, audits, _, store := testRunner(scanTime)

	broken := graceExpiredCase(33)
	healthy := graceExpiredCase(34)
	cases.On("ListGraceExpired", mock.Anything, scanTime).Return([]domain.Case{broken, healthy}, nil)
	assets.On("ListByCase", mock.Anything, mock.Anything).Return([]domain.Asset{}, nil)
	audits.On("Create", mock.Anything, mock.Anything).Return(nil)
	cases.On("DeleteCascade", mock.Anything, int64(33)).Return(errors.New("deadlock detected"))
	cases.On("DeleteCascade", mock.Anything, int64(34)).Return(nil)

	runner.PurgeExpiredCases()

	cases.AssertCalled(t, "DeleteCascade", mock.Anything, int64(34))
	store.AssertNotCalled(t, "DeleteObjects", mock.Anything, mock.Anything)
}

func TestPurgeExpiredCases_ListFailureAborts(t *testing.T) {
	runner, cases, assets, _, _, _, _ := testRunner(scanTime)

	cases.On("ListGraceExpired", mock.Anything, scanTime).Return(nil, errors.New("connection refused"))

	runner.PurgeExpiredCases()

	assets.AssertNotCalled(t, "ListByCase", mock.Anything, mock.Anything)
	cases.AssertNotCalled(t, "DeleteCascade", mock.Anything, mock.Anything)
	assert.True(t, cases.AssertExpectations(t))
}
