package handler_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wissensbank/backend/internal/handler"
	"wissensbank/backend/internal/service"
	"wissensbank/backend/internal/service/mock"
)

func TestNewsletterHandler_Subscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockNewsletterService(ctrl)
	h := handler.NewNewsletterHandler(mockService, testSite, "")

	mockService.EXPECT().
		Subscribe(gomock.Any(), "Reader@Example.com").
		Return(service.SubscribeResult{Email: "reader@example.com", Sent: true}, nil)

	e := newTestEcho()
	req := newJSONRequest(http.MethodPost, "/api/newsletter/subscribe", map[string]string{"email": "Reader@Example.com"})
	c, rec := newTestContext(e, req)

	require.NoError(t, h.Subscribe(c))

	var resp handler.SubscribeResponse
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.True(t, resp.Success)
	require.Equal(t, "reader@example.com", resp.Email)
	require.True(t, resp.Sent)
	require.Empty(t, resp.ConfirmURL)
}

func TestNewsletterHandler_Subscribe_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockNewsletterService(ctrl)
	h := handler.NewNewsletterHandler(mockService, testSite, "")

	mockService.EXPECT().
		Subscribe(gomock.Any(), "x").
		Return(service.SubscribeResult{}, &service.ValidationError{Field: "email", Message: "Invalid email"})

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodPost, "/api/newsletter/subscribe", map[string]string{"email": "x"}))

	require.NoError(t, h.Subscribe(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewsletterHandler_Confirm(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockNewsletterService(ctrl)
	h := handler.NewNewsletterHandler(mockService, testSite, "")

	mockService.EXPECT().Confirm(gomock.Any(), "a@b.de", "tok").Return(false, nil)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/api/newsletter/confirm?email=a@b.de&token=tok", nil))

	require.NoError(t, h.Confirm(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, testSite+"/newsletter.html?status=invalid", rec.Header().Get("Location"))
}

func TestNewsletterHandler_Unsubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockNewsletterService(ctrl)
	h := handler.NewNewsletterHandler(mockService, testSite, "")

	mockService.EXPECT().Unsubscribe(gomock.Any(), "a@b.de", "tok").Return(true, nil)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/api/newsletter/unsubscribe?email=a@b.de&token=tok", nil))

	require.NoError(t, h.Unsubscribe(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, testSite+"/newsletter.html?status=unsubscribed", rec.Header().Get("Location"))
}

func TestNewsletterHandler_MissingParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockNewsletterService(ctrl)
	h := handler.NewNewsletterHandler(mockService, testSite, "")

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/api/newsletter/confirm?email=a@b.de", nil))

	require.NoError(t, h.Confirm(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewsletterHandler_Briefing(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockNewsletterService(ctrl)
	h := handler.NewNewsletterHandler(mockService, testSite, "s3cret")

	at := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	mockService.EXPECT().SendBriefing(gomock.Any()).
		Return(service.BriefingResult{Recipients: 4, Documents: 3, Sent: 3, Failed: 1, At: at}, nil)

	e := newTestEcho()
	req := newJSONRequest(http.MethodPost, "/api/newsletter/briefing", nil)
	req.Header.Set(handler.CronSecretHeader, "s3cret")
	c, rec := newTestContext(e, req)

	require.NoError(t, h.Briefing(c))

	var resp handler.BriefingResponse
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.True(t, resp.Success)
	require.Equal(t, 4, resp.Recipients)
	require.Equal(t, 3, resp.Documents)
	require.Equal(t, 3, resp.Sent)
	require.Equal(t, 1, resp.Failed)
	require.Equal(t, "2026-03-02T07:00:00Z", resp.At)
}

func TestNewsletterHandler_Briefing_Secret(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing_header", header: ""},
		{name: "wrong_header", header: "nope"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mock.NewMockNewsletterService(ctrl)
			h := handler.NewNewsletterHandler(mockService, testSite, "s3cret")

			e := newTestEcho()
			req := newJSONRequest(http.MethodGet, "/api/newsletter/briefing", nil)
			if tc.header != "" {
				req.Header.Set(handler.CronSecretHeader, tc.header)
			}
			c, rec := newTestContext(e, req)

			require.NoError(t, h.Briefing(c))
			require.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestNewsletterHandler_Briefing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockNewsletterService(ctrl)
	h := handler.NewNewsletterHandler(mockService, testSite, "")

	mockService.EXPECT().SendBriefing(gomock.Any()).Return(service.BriefingResult{}, errors.New("db closed"))

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodPost, "/api/newsletter/briefing", nil))

	require.NoError(t, h.Briefing(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
