package kyc

import (
	"context"
	"errors"
	"testing"
	"time"

	"coinplay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecordRepo is an in-memory VerificationRecordRepository honoring the
// same compare-and-swap semantics as the Mongo implementation.
type fakeRecordRepo struct {
	records map[string]*models.VerificationRecord

	failCAS bool
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]*models.VerificationRecord)}
}

func (r *fakeRecordRepo) GetByUserID(ctx context.Context, userID string) (*models.VerificationRecord, error) {
	rec, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRecordRepo) GetByExternalID(ctx context.Context, externalID string) (*models.VerificationRecord, error) {
	for _, rec := range r.records {
		if rec.ExternalID == externalID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRecordRepo) Upsert(ctx context.Context, rec *models.VerificationRecord) error {
	cp := *rec
	r.records[rec.UserID] = &cp
	return nil
}

func (r *fakeRecordRepo) ReplaceMatchingSession(ctx context.Context, externalID string, rec *models.VerificationRecord) (bool, error) {
	if r.failCAS {
		return false, nil
	}
	stored, ok := r.records[rec.UserID]
	if !ok || stored.ExternalID != externalID {
		return false, nil
	}
	cp := *rec
	r.records[rec.UserID] = &cp
	return true, nil
}

func (r *fakeRecordRepo) ListStalePending(ctx context.Context, olderThan time.Time) ([]models.VerificationRecord, error) {
	var out []models.VerificationRecord
	for _, rec := range r.records {
		if rec.Status == models.KYCStatusPending && rec.UpdatedAt.Before(olderThan) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []models.AdminActionLogEntry
}

func (a *fakeAuditRepo) Append(ctx context.Context, entry models.AdminActionLogEntry) (string, error) {
	a.entries = append(a.entries, entry)
	return "entry-id", nil
}

func (a *fakeAuditRepo) GetByUserID(ctx context.Context, userID string) ([]models.AdminActionLogEntry, error) {
	var out []models.AdminActionLogEntry
	for _, e := range a.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	statuses map[string]models.KYCStatus
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{statuses: make(map[string]models.KYCStatus)}
}

func (u *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (u *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (u *fakeUserRepo) GetAll(ctx context.Context) ([]models.User, error) { return nil, nil }

func (u *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (u *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (u *fakeUserRepo) UpdateKYCStatus(ctx context.Context, userID string, status models.KYCStatus) error {
	u.statuses[userID] = status
	return nil
}

// fakeProviderClient scripts CreateSession and PollStatus and counts calls.
type fakeProviderClient struct {
	session    *ProviderSession
	sessionErr error

	pollStatus *ProviderStatus
	pollErr    error

	createCalls int
	pollCalls   int
}

func (p *fakeProviderClient) CreateSession(ctx context.Context, userID string, info models.ApplicantInfo) (*ProviderSession, error) {
	p.createCalls++
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	return p.session, nil
}

func (p *fakeProviderClient) PollStatus(ctx context.Context, externalID string) (*ProviderStatus, error) {
	p.pollCalls++
	if p.pollErr != nil {
		return nil, p.pollErr
	}
	return p.pollStatus, nil
}

type fakeNotifier struct {
	calls []models.KYCStatus
	err   error
}

func (n *fakeNotifier) NotifyKYCStatusChange(ctx context.Context, userID string, status models.KYCStatus, reason string) error {
	n.calls = append(n.calls, status)
	return n.err
}

var testClock = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	svc      *DefaultKYCService
	records  *fakeRecordRepo
	audit    *fakeAuditRepo
	users    *fakeUserRepo
	provider *fakeProviderClient
	notifier *fakeNotifier
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		records:  newFakeRecordRepo(),
		audit:    &fakeAuditRepo{},
		users:    newFakeUserRepo(),
		provider: &fakeProviderClient{},
		notifier: &fakeNotifier{},
	}
	f.svc = &DefaultKYCService{
		Records:  f.records,
		Audit:    f.audit,
		Users:    f.users,
		Provider: f.provider,
		Notifier: f.notifier,
		Now:      func() time.Time { return testClock },
	}
	return f
}

func validApplicant() models.ApplicantInfo {
	return models.ApplicantInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
}

func TestInitiateCreatesPendingRecord(t *testing.T) {
	f := newServiceFixture()
	f.provider.session = &ProviderSession{ExternalID: "sess-1", VerificationURL: "https://verify.example/sess-1"}

	init, err := f.svc.Initiate(context.Background(), "user-1", validApplicant())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", init.ExternalID)
	assert.Equal(t, "https://verify.example/sess-1", init.VerificationURL)

	rec := f.records.records["user-1"]
	require.NotNil(t, rec)
	assert.Equal(t, models.KYCStatusPending, rec.Status)
	assert.Equal(t, "sess-1", rec.ExternalID)
	assert.Equal(t, testClock, rec.SubmittedAt)
	assert.Nil(t, rec.VerifiedAt)
	assert.Empty(t, rec.RejectionReason)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "user:user-1", f.audit.entries[0].Actor)
	assert.Equal(t, models.KYCStatusNotSubmitted, f.audit.entries[0].PreviousStatus)
	assert.Equal(t, models.KYCStatusPending, f.audit.entries[0].NewStatus)

	assert.Equal(t, models.KYCStatusPending, f.users.statuses["user-1"])
}

func TestInitiateRejectsIncompleteApplicant(t *testing.T) {
	f := newServiceFixture()

	_, err := f.svc.Initiate(context.Background(), "user-1", models.ApplicantInfo{LastName: "Lovelace", Email: "a@b.c"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, f.provider.createCalls, "provider must not be called for invalid input")
	assert.Empty(t, f.records.records)
	assert.Empty(t, f.audit.entries)
}

func TestInitiateProviderFailureLeavesRecordUntouched(t *testing.T) {
	f := newServiceFixture()
	existing := &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-old",
		Status:     models.KYCStatusPending,
	}
	f.records.records["user-1"] = existing
	f.provider.sessionErr = &ProviderUnavailableError{Op: "createSession", Err: errors.New("connect refused")}

	_, err := f.svc.Initiate(context.Background(), "user-1", validApplicant())

	var pErr *ProviderUnavailableError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "sess-old", f.records.records["user-1"].ExternalID)
	assert.Empty(t, f.audit.entries)
}

func TestReinitiationSupersedesSession(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-old",
		Status:     models.KYCStatusRejected,
	}
	f.provider.session = &ProviderSession{ExternalID: "sess-new", VerificationURL: "https://verify.example/sess-new"}

	_, err := f.svc.Initiate(context.Background(), "user-1", validApplicant())
	require.NoError(t, err)

	rec := f.records.records["user-1"]
	assert.Equal(t, "sess-new", rec.ExternalID)
	assert.Equal(t, models.KYCStatusPending, rec.Status)

	// A webhook for the superseded session must now be refused.
	_, err = f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-old",
		Status:     models.KYCStatusVerified,
	}, ActorProvider)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Equal(t, models.KYCStatusPending, f.records.records["user-1"].Status)
}

func TestGetStatusWithoutRecord(t *testing.T) {
	f := newServiceFixture()

	view, err := f.svc.GetStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusNotSubmitted, view.Status)
	assert.Zero(t, f.provider.pollCalls)
}

func TestGetStatusTerminalSkipsProvider(t *testing.T) {
	f := newServiceFixture()
	verifiedAt := testClock.Add(-time.Hour)
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusVerified,
		VerifiedAt: &verifiedAt,
	}

	view, err := f.svc.GetStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusVerified, view.Status)
	require.NotNil(t, view.VerifiedAt)
	assert.Equal(t, verifiedAt, *view.VerifiedAt)
	assert.Zero(t, f.provider.pollCalls, "terminal status must not trigger a poll")
}

func TestGetStatusDegradesOnPollFailure(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusPending,
	}
	f.provider.pollErr = &ProviderUnavailableError{Op: "pollStatus", Err: errors.New("timeout")}

	view, err := f.svc.GetStatus(context.Background(), "user-1")
	require.NoError(t, err, "a provider outage must not surface as an error")
	assert.Equal(t, models.KYCStatusPending, view.Status)
	assert.Equal(t, 1, f.provider.pollCalls)
}

func TestGetStatusAppliesPolledTransition(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusPending,
	}
	f.provider.pollStatus = &ProviderStatus{Status: models.KYCStatusVerified}

	view, err := f.svc.GetStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusVerified, view.Status)
	require.NotNil(t, view.VerifiedAt)
	assert.Equal(t, testClock, *view.VerifiedAt)

	rec := f.records.records["user-1"]
	assert.Equal(t, models.KYCStatusVerified, rec.Status)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, ActorProvider, f.audit.entries[0].Actor)
}

func TestGetStatusUnchangedPollSkipsWrite(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusPending,
	}
	f.provider.pollStatus = &ProviderStatus{Status: models.KYCStatusPending}

	view, err := f.svc.GetStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusPending, view.Status)
	assert.Empty(t, f.audit.entries)
}

func TestApplyExternalUpdateVerified(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusPending,
	}

	updated, err := f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-1",
		Status:     models.KYCStatusVerified,
		Details:    map[string]interface{}{"documentType": "passport"},
	}, ActorProvider)
	require.NoError(t, err)

	assert.Equal(t, models.KYCStatusVerified, updated.Status)
	require.NotNil(t, updated.VerifiedAt)
	assert.Equal(t, testClock, *updated.VerifiedAt)
	assert.Empty(t, updated.RejectionReason)

	assert.Equal(t, models.KYCStatusVerified, f.users.statuses["user-1"])
	assert.Equal(t, []models.KYCStatus{models.KYCStatusVerified}, f.notifier.calls)
}

func TestApplyExternalUpdateRejectedDefaultsReason(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusPending,
	}

	updated, err := f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-1",
		Status:     models.KYCStatusRejected,
	}, ActorProvider)
	require.NoError(t, err)

	assert.Equal(t, models.KYCStatusRejected, updated.Status)
	assert.Nil(t, updated.VerifiedAt)
	assert.Equal(t, defaultRejectionReason, updated.RejectionReason)
}

func TestApplyExternalUpdateRejectedKeepsProviderReason(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusPending,
	}

	updated, err := f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-1",
		Status:     models.KYCStatusRejected,
		Reason:     "document expired",
	}, ActorProvider)
	require.NoError(t, err)
	assert.Equal(t, "document expired", updated.RejectionReason)
}

func TestApplyExternalUpdateUnknownSession(t *testing.T) {
	f := newServiceFixture()

	_, err := f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-ghost",
		Status:     models.KYCStatusVerified,
	}, ActorProvider)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Empty(t, f.audit.entries)
}

func TestApplyExternalUpdateIdempotentRedelivery(t *testing.T) {
	f := newServiceFixture()
	verifiedAt := testClock.Add(-2 * time.Hour)
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusVerified,
		VerifiedAt: &verifiedAt,
	}

	updated, err := f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-1",
		Status:     models.KYCStatusVerified,
	}, ActorProvider)
	require.NoError(t, err)

	require.NotNil(t, updated.VerifiedAt)
	assert.Equal(t, verifiedAt, *updated.VerifiedAt, "redelivery must not re-stamp verifiedAt")
	assert.Empty(t, f.audit.entries, "redelivery of the stored status is not a transition")
	assert.Empty(t, f.notifier.calls)
}

func TestApplyExternalUpdateTerminalRecordIgnoresLateEvent(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:          "user-1",
		ExternalID:      "sess-1",
		Status:          models.KYCStatusRejected,
		RejectionReason: "document expired",
	}

	updated, err := f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-1",
		Status:     models.KYCStatusVerified,
	}, ActorProvider)
	require.NoError(t, err)

	assert.Equal(t, models.KYCStatusRejected, updated.Status)
	assert.Equal(t, models.KYCStatusRejected, f.records.records["user-1"].Status)
	assert.Empty(t, f.audit.entries)
}

func TestApplyExternalUpdateLosesCASRace(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusPending,
	}
	f.records.failCAS = true

	_, err := f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-1",
		Status:     models.KYCStatusVerified,
	}, ActorProvider)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Empty(t, f.audit.entries)
}

func TestNotifierFailureDoesNotBlockTransition(t *testing.T) {
	f := newServiceFixture()
	f.records.records["user-1"] = &models.VerificationRecord{
		UserID:     "user-1",
		ExternalID: "sess-1",
		Status:     models.KYCStatusPending,
	}
	f.notifier.err = errors.New("fcm unreachable")

	updated, err := f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-1",
		Status:     models.KYCStatusVerified,
	}, ActorProvider)
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusVerified, updated.Status)
}

func TestEveryTransitionAppendsAudit(t *testing.T) {
	f := newServiceFixture()
	f.provider.session = &ProviderSession{ExternalID: "sess-1", VerificationURL: "https://verify.example/s"}

	_, err := f.svc.Initiate(context.Background(), "user-1", validApplicant())
	require.NoError(t, err)

	_, err = f.svc.ApplyExternalUpdate(context.Background(), ProviderUpdate{
		ExternalID: "sess-1",
		Status:     models.KYCStatusVerified,
	}, ActorProvider)
	require.NoError(t, err)

	entries, err := f.audit.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.KYCStatusNotSubmitted, entries[0].PreviousStatus)
	assert.Equal(t, models.KYCStatusPending, entries[0].NewStatus)
	assert.Equal(t, models.KYCStatusPending, entries[1].PreviousStatus)
	assert.Equal(t, models.KYCStatusVerified, entries[1].NewStatus)
}
