package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/calendar"
	"hermes/pkg/errors"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GetCalendar(ctx context.Context, req calendar.Request) []calendar.Event {
	args := m.Called(ctx, req)
	return args.Get(0).([]calendar.Event)
}

func (m *mockProvider) FormatCalendar(events []calendar.Event, groupByCurrency bool) string {
	args := m.Called(events, groupByCurrency)
	return args.String(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendMessage(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}

func digestEvents() []calendar.Event {
	return []calendar.Event{{
		Currency: calendar.USD,
		Time:     "21:30",
		Title:    "CPI m/m",
		Impact:   calendar.ImpactHigh,
	}}
}

func TestDigestDeliversToAllChats(t *testing.T) {
	provider := new(mockProvider)
	notifier := new(mockNotifier)

	provider.On("GetCalendar", mock.Anything, mock.Anything).Return(digestEvents())
	provider.On("FormatCalendar", digestEvents(), true).Return("digest text")
	notifier.On("SendMessage", int64(100), "digest text").Return(nil)
	notifier.On("SendMessage", int64(200), "digest text").Return(nil)

	w := NewCalendarDigestWorker(provider, notifier, []int64{100, 200}, time.Hour, true)
	require.NoError(t, w.Run(context.Background()))

	notifier.AssertExpectations(t)
	provider.AssertExpectations(t)

	health := w.Health()
	assert.Equal(t, int64(1), health.RunCount)
	assert.Zero(t, health.ErrorCount)
}

func TestDigestContinuesAfterDeliveryFailure(t *testing.T) {
	provider := new(mockProvider)
	notifier := new(mockNotifier)

	provider.On("GetCalendar", mock.Anything, mock.Anything).Return(digestEvents())
	provider.On("FormatCalendar", mock.Anything, true).Return("digest text")
	notifier.On("SendMessage", int64(100), "digest text").Return(errors.ErrUnavailable)
	notifier.On("SendMessage", int64(200), "digest text").Return(nil)

	w := NewCalendarDigestWorker(provider, notifier, []int64{100, 200}, time.Hour, true)
	err := w.Run(context.Background())
	require.Error(t, err)

	// The second chat still received its digest
	notifier.AssertCalled(t, "SendMessage", int64(200), "digest text")
	assert.Equal(t, int64(1), w.Health().ErrorCount)
}

func TestDigestSkipsWhenNoChatsConfigured(t *testing.T) {
	provider := new(mockProvider)
	notifier := new(mockNotifier)

	w := NewCalendarDigestWorker(provider, notifier, nil, time.Hour, true)
	require.NoError(t, w.Run(context.Background()))

	provider.AssertNotCalled(t, "GetCalendar", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestDigestRequestsHighlightModeAtLowFloor(t *testing.T) {
	provider := new(mockProvider)
	notifier := new(mockNotifier)

	var gotReq calendar.Request
	provider.On("GetCalendar", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		gotReq = args.Get(1).(calendar.Request)
	}).Return([]calendar.Event{})
	provider.On("FormatCalendar", mock.Anything, true).Return("empty digest")
	notifier.On("SendMessage", int64(1), "empty digest").Return(nil)

	w := NewCalendarDigestWorker(provider, notifier, []int64{1}, time.Hour, true)
	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, calendar.ImpactLow, gotReq.MinImpact)
	assert.Equal(t, calendar.FilterHighlight, gotReq.Mode)
}
