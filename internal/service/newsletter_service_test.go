package service_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wissensbank/backend/internal/mailer"
	mailmock "wissensbank/backend/internal/mailer/mock"
	"wissensbank/backend/internal/model"
	"wissensbank/backend/internal/repository"
	"wissensbank/backend/internal/repository/mock"
	"wissensbank/backend/internal/repository/testutil"
	"wissensbank/backend/internal/service"
)

func TestNewsletterService_SubscribeConfirmUnsubscribe(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewNewsletterService(repository.NewSubscriberRepository(db), repository.NewDocumentRepository(db), mailer.DevMailer{}, testSite, "Wissens-Bank", nil)
	ctx := context.Background()

	res, err := svc.Subscribe(ctx, " Leser@Example.com ")
	require.NoError(t, err)
	require.Equal(t, "leser@example.com", res.Email)
	require.False(t, res.Sent)
	require.NotEmpty(t, res.ConfirmURL)

	u, err := url.Parse(res.ConfirmURL)
	require.NoError(t, err)
	require.Equal(t, "/api/newsletter/confirm", u.Path)
	require.Equal(t, "leser@example.com", u.Query().Get("email"))
	token := u.Query().Get("token")
	require.Len(t, token, 36)

	ok, err := svc.Confirm(ctx, "LESER@example.com", "wrong")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.Confirm(ctx, "LESER@example.com", token)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Unsubscribe(ctx, "leser@example.com", token)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Confirm(ctx, "", token)
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestNewsletterService_SubscribeRejectsBadEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSubscriberRepository(ctrl)
	svc := service.NewNewsletterService(repo, nil, mailmock.NewMockMailer(ctrl), testSite, "Wissens-Bank", nil)

	_, err := svc.Subscribe(context.Background(), "not-an-email")
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestNewsletterService_SubscribeSendsMail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSubscriberRepository(ctrl)
	mail := mailmock.NewMockMailer(ctrl)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := service.NewNewsletterService(repo, nil, mail, testSite, "Wissens-Bank", fixedClock(now))

	repo.EXPECT().Upsert(gomock.Any(), "a@example.com", gomock.Any(), now).
		DoAndReturn(func(_ context.Context, email, token string, at time.Time) (model.Subscriber, error) {
			return model.Subscriber{ID: 3, Email: email, Token: token, Status: model.AlertStatusPending, CreatedAt: at}, nil
		})
	mail.EXPECT().Send(gomock.Any(), "a@example.com", "Wissens-Bank Briefing: Bitte bestätigen", gomock.Any()).
		Return(mailer.Result{Sent: true, Provider: mailer.ProviderResend}, nil)

	res, err := svc.Subscribe(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.True(t, res.Sent)
	require.Empty(t, res.ConfirmURL)
}

func TestNewsletterService_SendBriefing(t *testing.T) {
	ctrl := gomock.NewController(t)
	subs := mock.NewMockSubscriberRepository(ctrl)
	docs := mock.NewMockDocumentRepository(ctrl)
	mail := mailmock.NewMockMailer(ctrl)
	now := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	svc := service.NewNewsletterService(subs, docs, mail, testSite, "Wissens-Bank", fixedClock(now))

	source := "Bundestag"
	published := now.Add(-2 * time.Hour)
	subs.EXPECT().ListActive(gomock.Any(), 500).Return([]model.Subscriber{
		{ID: 1, Email: "a@example.com", Token: "tok-a", Status: model.AlertStatusActive},
		{ID: 2, Email: "b@example.com", Token: "tok-b", Status: model.AlertStatusActive},
		{ID: 3, Email: "c@example.com", Token: "tok-c", Status: model.AlertStatusActive},
	}, nil)
	docs.EXPECT().ListRecent(gomock.Any(), now.Add(-24*time.Hour), 10).Return([]model.Document{
		{ID: 9, Slug: "neu-<x>", Title: "<i>Neu</i>", SourceName: &source, PublishedAt: &published},
	}, nil)

	bodies := map[string]string{}
	mail.EXPECT().Send(gomock.Any(), gomock.Any(), "Wissens-Bank Briefing: neue Einträge", gomock.Any()).
		DoAndReturn(func(_ context.Context, to, _, html string) (mailer.Result, error) {
			bodies[to] = html
			if to == "b@example.com" {
				return mailer.Result{}, errors.New("resend: 500")
			}
			return mailer.Result{Sent: true, Provider: mailer.ProviderResend}, nil
		}).Times(3)

	res, err := svc.SendBriefing(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Recipients)
	require.Equal(t, 1, res.Documents)
	require.Equal(t, 2, res.Sent)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, now, res.At)

	body := bodies["c@example.com"]
	require.Contains(t, body, "&lt;i&gt;Neu&lt;/i&gt;")
	require.Contains(t, body, testSite+"/a/neu-%3Cx%3E")
	require.Contains(t, body, "(Bundestag)")
	require.Contains(t, body, "email=c%40example.com&amp;token=tok-c")
	require.False(t, strings.Contains(body, "tok-a"))
}

func TestNewsletterService_SendBriefingNoSubscribers(t *testing.T) {
	ctrl := gomock.NewController(t)
	subs := mock.NewMockSubscriberRepository(ctrl)
	docs := mock.NewMockDocumentRepository(ctrl)
	now := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	svc := service.NewNewsletterService(subs, docs, mailmock.NewMockMailer(ctrl), testSite, "Wissens-Bank", fixedClock(now))

	subs.EXPECT().ListActive(gomock.Any(), 500).Return(nil, nil)
	docs.EXPECT().ListRecent(gomock.Any(), gomock.Any(), 10).Return(nil, nil)

	res, err := svc.SendBriefing(context.Background())
	require.NoError(t, err)
	require.Zero(t, res.Recipients)
	require.Zero(t, res.Sent)
}

func TestNewsletterService_SendBriefingListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	subs := mock.NewMockSubscriberRepository(ctrl)
	svc := service.NewNewsletterService(subs, mock.NewMockDocumentRepository(ctrl), mailmock.NewMockMailer(ctrl), testSite, "Wissens-Bank", nil)

	subs.EXPECT().ListActive(gomock.Any(), 500).Return(nil, errors.New("db closed"))

	_, err := svc.SendBriefing(context.Background())
	require.ErrorContains(t, err, "list active subscribers")
}

func TestNewsletterService_SendBriefingDevMailer(t *testing.T) {
	db := testutil.NewTestDB(t)
	subRepo := repository.NewSubscriberRepository(db)
	now := time.Now().UTC()
	ctx := context.Background()

	sub, err := subRepo.Upsert(ctx, "leser@example.com", "tok", now)
	require.NoError(t, err)
	ok, err := subRepo.Confirm(ctx, sub.Email, sub.Token, now)
	require.NoError(t, err)
	require.True(t, ok)

	svc := service.NewNewsletterService(subRepo, repository.NewDocumentRepository(db), mailer.DevMailer{}, testSite, "Wissens-Bank", nil)
	res, err := svc.SendBriefing(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Recipients)
	require.Zero(t, res.Sent)
	require.Zero(t, res.Failed)
}
