package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorage is a mock implementation of ports.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveReport(ctx context.Context, report domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockStorage) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockStorage) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockStorage) Close() error {
	return m.Called().Error(0)
}

// MockFrameSource is a mock implementation of ports.FrameSource
type MockFrameSource struct {
	mock.Mock
}

func (m *MockFrameSource) Frame(ctx context.Context, sel domain.FrameSelector) (domain.Frame, error) {
	args := m.Called(ctx, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Frame), args.Error(1)
}

func (m *MockFrameSource) Name() string {
	return m.Called().String(0)
}

func vhtFrame(rx string) domain.Frame {
	return domain.Frame{
		"wlan": map[string]any{"wlan.bssid": "02:00:00:00:00:01"},
		"wlan.mgt": map[string]any{
			"wlan.tagged.all": map[string]any{
				"wlan.tag": []any{
					map[string]any{"wlan.tag.number": "0", "wlan.ssid": "office"},
					map[string]any{
						"wlan.tag.number": "191",
						"wlan.vht.mcsset": map[string]any{
							"wlan.vht.mcsset.rxmcsmap": rx,
							"wlan.vht.mcsset.txmcsmap": "0xfffe",
						},
					},
				},
			},
		},
	}
}

func newTestService(store *MockStorage) *Service {
	var svc *Service
	if store == nil {
		svc = NewService(nil)
	} else {
		svc = NewService(store)
	}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	svc.newID = func() string { return "report-1" }
	return svc
}

func TestAnalyze_SavesReport(t *testing.T) {
	store := new(MockStorage)
	src := new(MockFrameSource)
	sel := domain.FrameSelector{SSID: "office"}

	src.On("Name").Return("capture.json")
	src.On("Frame", mock.Anything, sel).Return(vhtFrame("0xfffa"), nil)
	store.On("SaveReport", mock.Anything, mock.MatchedBy(func(r domain.Report) bool {
		return r.ID == "report-1" && len(r.Rows) == 2
	})).Return(nil)

	svc := newTestService(store)
	report, err := svc.Analyze(context.Background(), src, sel)
	require.NoError(t, err)

	assert.Equal(t, "capture.json", report.Source)
	assert.Equal(t, "office", report.SSID)
	assert.Equal(t, "02:00:00:00:00:01", report.BSSID)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), report.CreatedAt)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, domain.BandwidthRX, report.Rows[0].Bandwidth)
	assert.Equal(t, 2, report.Rows[0].NSS)
	assert.Equal(t, domain.IntPtr(9), report.Rows[0].MaxMCS)
	assert.Empty(t, report.Errors)

	store.AssertExpectations(t)
	src.AssertExpectations(t)
}

func TestAnalyze_NoFrame(t *testing.T) {
	src := new(MockFrameSource)
	src.On("Name").Return("empty.pcap")
	src.On("Frame", mock.Anything, domain.FrameSelector{}).Return(nil, domain.ErrNoFrame)

	svc := newTestService(nil)
	report, err := svc.Analyze(context.Background(), src, domain.FrameSelector{})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrNoFrame)
	assert.Contains(t, err.Error(), "empty.pcap")
}

func TestAnalyzeFrame_MalformedFieldsAreReported(t *testing.T) {
	svc := newTestService(nil)

	report, err := svc.AnalyzeFrame(context.Background(), "upload", vhtFrame("0xzz"))
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, domain.BandwidthTX, report.Rows[0].Bandwidth)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "wlan.vht.mcsset.rxmcsmap")
}

func TestAnalyzeFrame_EmptyFrameHasNoRows(t *testing.T) {
	svc := newTestService(nil)

	report, err := svc.AnalyzeFrame(context.Background(), "upload", domain.Frame{})
	require.NoError(t, err)
	assert.NotNil(t, report.Rows)
	assert.Empty(t, report.Rows)
}

func TestAnalyzeFrame_StorageFailure(t *testing.T) {
	store := new(MockStorage)
	store.On("SaveReport", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := newTestService(store)
	report, err := svc.AnalyzeFrame(context.Background(), "upload", vhtFrame("0xfffa"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	// the decoded report is still handed back
	require.NotNil(t, report)
	assert.Len(t, report.Rows, 2)
}

func TestHistory(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		svc := newTestService(nil)
		_, err := svc.GetReport(context.Background(), "x")
		assert.ErrorIs(t, err, ErrStorageDisabled)
		_, err = svc.ListReports(context.Background(), 10)
		assert.ErrorIs(t, err, ErrStorageDisabled)
	})

	t.Run("delegates to storage", func(t *testing.T) {
		store := new(MockStorage)
		want := &domain.Report{ID: "abc"}
		store.On("GetReport", mock.Anything, "abc").Return(want, nil)
		store.On("GetReport", mock.Anything, "missing").Return(nil, domain.ErrReportNotFound)
		store.On("ListReports", mock.Anything, 5).Return([]domain.Report{*want}, nil)

		svc := newTestService(store)
		got, err := svc.GetReport(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, want, got)

		_, err = svc.GetReport(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrReportNotFound)

		list, err := svc.ListReports(context.Background(), 5)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		store.AssertExpectations(t)
	})
}
