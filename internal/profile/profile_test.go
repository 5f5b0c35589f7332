package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/social-hub/internal/client"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) FetchProfile(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, upd)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) RequestOrganizer(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, name string, content io.Reader) (string, error) {
	args := m.Called(ctx, name, content)
	return args.String(0), args.Error(1)
}

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

// stepClock срабатывает сразу и запоминает отсчёт, видимый в момент ожидания.
type stepClock struct {
	view   *View
	shown  []int
	timers int
}

func (c *stepClock) After(time.Duration) <-chan time.Time {
	c.timers++
	c.shown = append(c.shown, c.view.Snapshot().SecondsLeft)
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func newTestView() (*View, *MockAPI, *MockUploader, *recordingNotifier) {
	api := new(MockAPI)
	up := new(MockUploader)
	n := &recordingNotifier{}
	return NewView(api, up, n, slog.New(slog.NewTextHandler(io.Discard, nil))), api, up, n
}

var participant = &models.User{
	UUID:                    "u1",
	Name:                    "Ann",
	Email:                   "ann@example.com",
	Avatar:                  "https://img/old.png",
	Role:                    models.RoleParticipant,
	OrganizerApprovalStatus: models.ApprovalNotApplied,
}

func TestView_LoadSuccess(t *testing.T) {
	v, api, _, n := newTestView()
	assert.Equal(t, StateLoading, v.Snapshot().State)
	api.On("FetchProfile", mock.Anything).Return(participant, nil).Once()

	v.Load(context.Background())

	s := v.Snapshot()
	assert.Equal(t, StateReady, s.State)
	assert.Equal(t, Form{Name: "Ann", Email: "ann@example.com"}, s.Form)
	assert.Equal(t, "https://img/old.png", s.AvatarURL)
	assert.Equal(t, models.RoleParticipant, s.Role)
	assert.Equal(t, models.ApprovalNotApplied, s.OrganizerStatus)
	assert.Empty(t, n.failures)
}

func TestView_LoadError(t *testing.T) {
	v, api, _, n := newTestView()
	api.On("FetchProfile", mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusInternalServerError, Message: "internal error"}).Once()

	v.Load(context.Background())

	s := v.Snapshot()
	assert.Equal(t, StateError, s.State)
	assert.Equal(t, MsgFetchFailed, s.Error)
	assert.Equal(t, []string{MsgFetchFailed}, n.failures)
}

func TestView_RateLimitCountdownThenSingleRefetch(t *testing.T) {
	v, api, _, _ := newTestView()
	api.On("FetchProfile", mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 5}).Once()
	api.On("FetchProfile", mock.Anything).Return(participant, nil).Once()

	v.Load(context.Background())
	s := v.Snapshot()
	require.Equal(t, StateRateLimited, s.State)
	require.Equal(t, 5, s.SecondsLeft)

	clock := &stepClock{view: v}
	require.NoError(t, v.Run(context.Background(), clock))

	// 5,4,3,2,1 перед каждым тиком, затем 0 и повторный запрос.
	assert.Equal(t, []int{5, 4, 3, 2, 1}, clock.shown)
	assert.Equal(t, 5, clock.timers)
	final := v.Snapshot()
	assert.Equal(t, 0, final.SecondsLeft)
	assert.Equal(t, StateReady, final.State)
	api.AssertNumberOfCalls(t, "FetchProfile", 2)
}

func TestView_SecondRateLimitRestartsCountdown(t *testing.T) {
	v, api, _, _ := newTestView()
	api.On("FetchProfile", mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 2}).Once()
	api.On("FetchProfile", mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 3}).Once()
	api.On("FetchProfile", mock.Anything).Return(participant, nil).Once()

	v.Load(context.Background())
	clock := &stepClock{view: v}
	require.NoError(t, v.Run(context.Background(), clock))

	assert.Equal(t, []int{2, 1, 3, 2, 1}, clock.shown)
	assert.Equal(t, StateReady, v.Snapshot().State)
	api.AssertNumberOfCalls(t, "FetchProfile", 3)
}

func TestView_TickOutsideRateLimitIsNoop(t *testing.T) {
	v, api, _, _ := newTestView()
	api.On("FetchProfile", mock.Anything).Return(participant, nil).Once()
	v.Load(context.Background())

	v.Tick(context.Background())
	v.Tick(context.Background())

	api.AssertNumberOfCalls(t, "FetchProfile", 1)
}

func TestView_ManualReloadDuringCountdownStopsIt(t *testing.T) {
	v, api, _, _ := newTestView()
	api.On("FetchProfile", mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 3}).Once()
	api.On("FetchProfile", mock.Anything).Return(participant, nil).Once()

	v.Load(context.Background())
	require.Equal(t, StateRateLimited, v.Snapshot().State)
	v.Load(context.Background())

	for range 5 {
		v.Tick(context.Background())
	}

	s := v.Snapshot()
	assert.Equal(t, StateReady, s.State)
	assert.Equal(t, 0, s.SecondsLeft)
	api.AssertNumberOfCalls(t, "FetchProfile", 2)
	require.NoError(t, v.Run(context.Background(), &stepClock{view: v}))
}

func TestView_RunStopsOnCancel(t *testing.T) {
	v, api, _, _ := newTestView()
	api.On("FetchProfile", mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 60}).Once()
	v.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := v.Run(ctx, RealClock)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 60, v.Snapshot().SecondsLeft)
	api.AssertNumberOfCalls(t, "FetchProfile", 1)
}

func TestView_SubmitWithoutAvatarSkipsUpload(t *testing.T) {
	v, api, up, n := newTestView()
	api.On("FetchProfile", mock.Anything).Return(participant, nil).Once()
	v.Load(context.Background())
	v.SetName("Anna")

	api.On("UpdateProfile", mock.Anything, models.ProfileUpdate{
		Name: "Anna", Email: "ann@example.com", Avatar: "https://img/old.png",
	}).Return(&models.User{UUID: "u1", Name: "Anna", Avatar: "https://img/old.png"}, nil).Once()

	require.NoError(t, v.Submit(context.Background()))

	up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{MsgUpdated}, n.success)
	assert.False(t, v.Snapshot().Submitting)
	api.AssertExpectations(t)
}

func TestView_SubmitUploadsNewAvatarFirst(t *testing.T) {
	v, api, up, n := newTestView()
	api.On("FetchProfile", mock.Anything).Return(participant, nil).Once()
	v.Load(context.Background())
	v.SetPassword("newpass1")
	v.SelectAvatar(&AvatarFile{Name: "me.png", Content: strings.NewReader("img")})

	up.On("Upload", mock.Anything, "me.png", mock.Anything).Return("https://img/new.png", nil).Once()
	api.On("UpdateProfile", mock.Anything, models.ProfileUpdate{
		Name: "Ann", Email: "ann@example.com", Password: "newpass1", Avatar: "https://img/new.png",
	}).Return(&models.User{UUID: "u1", Avatar: "https://img/new.png"}, nil).Once()

	require.NoError(t, v.Submit(context.Background()))

	s := v.Snapshot()
	assert.Equal(t, "https://img/new.png", s.AvatarURL)
	assert.Nil(t, s.Form.Avatar)
	assert.Empty(t, s.Form.Password)
	assert.Equal(t, []string{MsgUpdated}, n.success)
	up.AssertExpectations(t)
	api.AssertExpectations(t)
}

func TestView_SubmitFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "server message", err: &client.APIError{StatusCode: http.StatusConflict, Message: "email already registered"}, wantMsg: "email already registered"},
		{name: "transport error", err: errors.New("connection refused"), wantMsg: MsgUpdateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, api, _, n := newTestView()
			api.On("UpdateProfile", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			err := v.Submit(context.Background())

			require.Error(t, err)
			s := v.Snapshot()
			assert.Equal(t, tt.wantMsg, s.Error)
			assert.False(t, s.Submitting)
			assert.Equal(t, []string{MsgUpdateFailed}, n.failures)
		})
	}
}

func TestView_SubmitUploadFailureSkipsUpdate(t *testing.T) {
	v, api, up, n := newTestView()
	v.SelectAvatar(&AvatarFile{Name: "me.png", Content: strings.NewReader("img")})
	up.On("Upload", mock.Anything, "me.png", mock.Anything).Return("", errors.New("boom")).Once()

	require.Error(t, v.Submit(context.Background()))

	api.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	assert.Equal(t, []string{MsgUpdateFailed}, n.failures)
}

func TestView_DoubleSubmitRejected(t *testing.T) {
	v, api, _, _ := newTestView()
	release := make(chan struct{})
	started := make(chan struct{})
	api.On("UpdateProfile", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.User{}, nil).Once()

	done := make(chan error, 1)
	go func() { done <- v.Submit(context.Background()) }()
	<-started

	assert.True(t, v.Snapshot().Submitting)
	assert.ErrorIs(t, v.Submit(context.Background()), ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	api.AssertNumberOfCalls(t, "UpdateProfile", 1)
}

func TestView_RequestOrganizer(t *testing.T) {
	v, api, _, n := newTestView()
	api.On("FetchProfile", mock.Anything).Return(participant, nil).Once()
	v.Load(context.Background())
	api.On("RequestOrganizer", mock.Anything).
		Return(&models.User{OrganizerApprovalStatus: models.ApprovalPending}, nil).Once()

	require.NoError(t, v.RequestOrganizer(context.Background()))

	s := v.Snapshot()
	assert.Equal(t, models.ApprovalPending, s.OrganizerStatus)
	assert.Equal(t, ButtonPending, OrganizerButton(s.Role, s.OrganizerStatus))
	assert.Equal(t, []string{MsgRequestSent}, n.success)
}

func TestView_RequestOrganizerFailure(t *testing.T) {
	v, api, _, n := newTestView()
	api.On("RequestOrganizer", mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusConflict, Message: "invalid organizer status transition"}).Once()

	require.Error(t, v.RequestOrganizer(context.Background()))

	assert.Equal(t, "invalid organizer status transition", v.Snapshot().Error)
	assert.Equal(t, []string{MsgUpdateFailed}, n.failures)
}
