package service_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wissensbank/backend/internal/mailer"
	mailmock "wissensbank/backend/internal/mailer/mock"
	"wissensbank/backend/internal/model"
	"wissensbank/backend/internal/repository"
	"wissensbank/backend/internal/repository/testutil"
	"wissensbank/backend/internal/service"
	svcmock "wissensbank/backend/internal/service/mock"
)

type scanFixture struct {
	db      *sql.DB
	now     time.Time
	clock   *testClock
	alerts  repository.AlertRepository
	hits    repository.AlertHitRepository
	mail    *mailmock.MockMailer
	scanner service.ScanService
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	db := testutil.NewTestDB(t)
	now := time.Now().UTC().Truncate(time.Millisecond)
	clock := &testClock{now: now}

	alerts := repository.NewAlertRepository(db)
	hits := repository.NewAlertHitRepository(db)
	mail := mailmock.NewMockMailer(ctrl)
	alertSvc := service.NewAlertService(alerts, mail, testSite, "Wissens-Bank", clock.Now)
	scanner := service.NewScanService(alertSvc, hits, repository.NewDocumentRepository(db), repository.NewEntityRepository(db), mail,
		service.ScanOptions{SiteURL: testSite, SiteName: "Wissens-Bank", BatchLimit: 80}, clock.Now)

	return &scanFixture{db: db, now: now, clock: clock, alerts: alerts, hits: hits, mail: mail, scanner: scanner}
}

func (f *scanFixture) alert(t *testing.T, id int64) model.Alert {
	t.Helper()
	a, err := f.alerts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

func TestScanService_DeliversFreshMatchesNewestFirst(t *testing.T) {
	f := newScanFixture(t)
	ctx := context.Background()

	alertID := testutil.SeedAlert(t, f.db, model.Alert{
		Email:         "reader@example.com",
		Query:         testutil.StringPtr("acme"),
		Frequency:     model.FrequencyDaily,
		LastCheckedAt: testutil.TimePtr(f.now.Add(-48 * time.Hour)),
	})
	testutil.SeedDocument(t, f.db, model.Document{Title: "ACME quartalszahlen", Slug: "acme-alt", PublishedAt: testutil.TimePtr(f.now.Add(-24 * time.Hour)), SourceName: testutil.StringPtr("Bundesanzeiger")})
	testutil.SeedDocument(t, f.db, model.Document{Title: "Neu", Excerpt: testutil.StringPtr("acme übernimmt"), Slug: "acme-neu", PublishedAt: testutil.TimePtr(f.now.Add(-3 * time.Hour))})
	testutil.SeedDocument(t, f.db, model.Document{Title: "acme vor dem Check", PublishedAt: testutil.TimePtr(f.now.Add(-72 * time.Hour))})
	testutil.SeedDocument(t, f.db, model.Document{Title: "Anderes Thema", PublishedAt: testutil.TimePtr(f.now.Add(-time.Hour))})

	var html string
	f.mail.EXPECT().Send(gomock.Any(), "reader@example.com", "Wissens-Bank Alert: acme (2 neu)", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, body string) (mailer.Result, error) {
			html = body
			return mailer.Result{Sent: true, Provider: mailer.ProviderResend}, nil
		})

	res, err := f.scanner.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	require.Equal(t, 1, res.Triggered)
	require.Equal(t, 1, res.Sent)
	require.Equal(t, f.now, res.At)

	count, err := f.hits.Count(ctx, alertID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.Contains(t, html, "Wissens-Bank: Search Alert: acme (2 neu)")
	newest := strings.Index(html, testSite+"/a/acme-neu")
	older := strings.Index(html, testSite+"/a/acme-alt")
	require.True(t, newest >= 0 && older >= 0)
	require.Less(t, newest, older)
	require.Contains(t, html, "Bundesanzeiger")
	require.NotContains(t, html, "vor dem Check")

	a := f.alert(t, alertID)
	require.NotNil(t, a.LastCheckedAt)
	require.True(t, a.LastCheckedAt.Equal(f.now))
	require.NotNil(t, a.LastTriggeredAt)
	require.True(t, a.LastTriggeredAt.Equal(f.now))
}

func TestScanService_RescanDoesNotResend(t *testing.T) {
	f := newScanFixture(t)
	ctx := context.Background()

	testutil.SeedAlert(t, f.db, model.Alert{Query: testutil.StringPtr("haushalt"), Frequency: model.FrequencyHourly})
	testutil.SeedDocument(t, f.db, model.Document{Title: "Haushalt 2026", PublishedAt: testutil.TimePtr(f.now.Add(-2 * time.Hour))})

	f.mail.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(mailer.Result{Sent: true, Provider: mailer.ProviderResend}, nil).Times(1)

	first, err := f.scanner.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, first.Sent)

	f.clock.Advance(2 * time.Hour)
	second, err := f.scanner.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, second.Processed)
	require.Equal(t, 0, second.Triggered)
	require.Equal(t, 0, second.Sent)
}

func TestScanService_FrequencyGate(t *testing.T) {
	f := newScanFixture(t)

	skipped := testutil.SeedAlert(t, f.db, model.Alert{Query: testutil.StringPtr("wahl"), Frequency: model.FrequencyHourly, LastCheckedAt: testutil.TimePtr(f.now.Add(-50 * time.Minute))})
	due := testutil.SeedAlert(t, f.db, model.Alert{Query: testutil.StringPtr("wahl"), Frequency: model.FrequencyHourly, LastCheckedAt: testutil.TimePtr(f.now.Add(-52 * time.Minute))})
	dailyEarly := testutil.SeedAlert(t, f.db, model.Alert{Query: testutil.StringPtr("wahl"), Frequency: model.FrequencyDaily, LastCheckedAt: testutil.TimePtr(f.now.Add(-20 * time.Hour))})

	res, err := f.scanner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Processed)
	require.Equal(t, 0, res.Triggered)

	require.True(t, f.alert(t, skipped).LastCheckedAt.Equal(f.now.Add(-50*time.Minute)))
	require.True(t, f.alert(t, due).LastCheckedAt.Equal(f.now))
	require.True(t, f.alert(t, dailyEarly).LastCheckedAt.Equal(f.now.Add(-20*time.Hour)))
}

func TestScanService_CheckpointAdvancesWithoutMatches(t *testing.T) {
	f := newScanFixture(t)

	id := testutil.SeedAlert(t, f.db, model.Alert{Query: testutil.StringPtr("nichts")})

	res, err := f.scanner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	require.Equal(t, 0, res.Triggered)

	a := f.alert(t, id)
	require.NotNil(t, a.LastCheckedAt)
	require.True(t, a.LastCheckedAt.Equal(f.now))
	require.Nil(t, a.LastTriggeredAt)
}

func TestScanService_NotSentLeavesTriggeredUntouched(t *testing.T) {
	f := newScanFixture(t)

	id := testutil.SeedAlert(t, f.db, model.Alert{Query: testutil.StringPtr("klima")})
	testutil.SeedDocument(t, f.db, model.Document{Title: "Klima", PublishedAt: testutil.TimePtr(f.now.Add(-time.Hour))})

	f.mail.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(mailer.Result{Provider: mailer.ProviderNone, Dev: true}, nil)

	res, err := f.scanner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Triggered)
	require.Equal(t, 0, res.Sent)

	a := f.alert(t, id)
	require.True(t, a.LastCheckedAt.Equal(f.now))
	require.Nil(t, a.LastTriggeredAt)
}

func TestScanService_DispatchFailureIsIsolated(t *testing.T) {
	f := newScanFixture(t)

	failing := testutil.SeedAlert(t, f.db, model.Alert{Email: "first@example.com", Query: testutil.StringPtr("bahn")})
	working := testutil.SeedAlert(t, f.db, model.Alert{Email: "second@example.com", Query: testutil.StringPtr("bahn")})
	testutil.SeedDocument(t, f.db, model.Document{Title: "Bahnstreik", PublishedAt: testutil.TimePtr(f.now.Add(-time.Hour))})

	f.mail.EXPECT().Send(gomock.Any(), "first@example.com", gomock.Any(), gomock.Any()).Return(mailer.Result{Provider: mailer.ProviderResend}, errors.New("connection reset"))
	f.mail.EXPECT().Send(gomock.Any(), "second@example.com", gomock.Any(), gomock.Any()).Return(mailer.Result{Sent: true, Provider: mailer.ProviderResend}, nil)

	res, err := f.scanner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Processed)
	require.Equal(t, 2, res.Triggered)
	require.Equal(t, 1, res.Sent)

	require.Nil(t, f.alert(t, failing).LastTriggeredAt)
	require.True(t, f.alert(t, failing).LastCheckedAt.Equal(f.now))
	require.NotNil(t, f.alert(t, working).LastTriggeredAt)
}

func TestScanService_NameAlerts(t *testing.T) {
	f := newScanFixture(t)

	testutil.SeedEntity(t, f.db, "acme-gmbh", "ACME GmbH")
	testutil.SeedAlert(t, f.db, model.Alert{Email: "named@example.com", Kind: model.AlertKindName, EntitySlug: testutil.StringPtr("acme-gmbh")})
	testutil.SeedAlert(t, f.db, model.Alert{Email: "slug@example.com", Kind: model.AlertKindName, EntitySlug: testutil.StringPtr("beta-ag")})
	testutil.SeedDocument(t, f.db, model.Document{Title: "Insolvenz der ACME GmbH", PublishedAt: testutil.TimePtr(f.now.Add(-time.Hour))})
	testutil.SeedDocument(t, f.db, model.Document{Title: "Zeitleiste beta-ag", PublishedAt: testutil.TimePtr(f.now.Add(-time.Hour))})

	f.mail.EXPECT().Send(gomock.Any(), "named@example.com", "Wissens-Bank Alert: ACME GmbH (1 neu)", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, body string) (mailer.Result, error) {
			require.Contains(t, body, "Name Alert: ACME GmbH")
			return mailer.Result{Sent: true}, nil
		})
	f.mail.EXPECT().Send(gomock.Any(), "slug@example.com", "Wissens-Bank Alert: beta-ag (1 neu)", gomock.Any()).Return(mailer.Result{Sent: true}, nil)

	res, err := f.scanner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Sent)
}

func TestScanService_EmptyTermIsSkipped(t *testing.T) {
	f := newScanFixture(t)

	id := testutil.SeedAlert(t, f.db, model.Alert{Query: testutil.StringPtr("   ")})

	res, err := f.scanner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	require.Nil(t, f.alert(t, id).LastCheckedAt)
}

func TestScanService_LimitPerSendCapsCandidates(t *testing.T) {
	f := newScanFixture(t)

	testutil.SeedAlert(t, f.db, model.Alert{Query: testutil.StringPtr("rente"), LimitPerSend: 2})
	for i := 1; i <= 4; i++ {
		testutil.SeedDocument(t, f.db, model.Document{Title: "Rente", PublishedAt: testutil.TimePtr(f.now.Add(-time.Duration(i) * time.Hour))})
	}

	f.mail.EXPECT().Send(gomock.Any(), gomock.Any(), "Wissens-Bank Alert: rente (2 neu)", gomock.Any()).Return(mailer.Result{Sent: true}, nil)

	res, err := f.scanner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Sent)
}

func TestScanService_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	alerts := svcmock.NewMockAlertService(ctrl)
	alerts.EXPECT().ListDue(gomock.Any(), 5).Return(nil, errors.New("db down"))

	scanner := service.NewScanService(alerts, nil, nil, nil, nil, service.ScanOptions{BatchLimit: 5}, nil)
	_, err := scanner.Run(context.Background())
	require.Error(t, err)
}

func TestScanService_RejectsOverlappingRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	alerts := svcmock.NewMockAlertService(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	alerts.EXPECT().ListDue(gomock.Any(), 80).DoAndReturn(func(context.Context, int) ([]model.Alert, error) {
		close(entered)
		<-release
		return nil, nil
	})

	scanner := service.NewScanService(alerts, nil, nil, nil, nil, service.ScanOptions{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := scanner.Run(context.Background())
		done <- err
	}()
	<-entered
	require.True(t, scanner.IsRunning())

	_, err := scanner.Run(context.Background())
	require.ErrorIs(t, err, service.ErrAlreadyRunning)

	close(release)
	require.NoError(t, <-done)
	require.False(t, scanner.IsRunning())
}
