// Package profile — экран профиля без привязки к UI: загрузка профиля,
// обратный отсчёт после 429 с одним автоматическим повтором, сохранение
// изменений с загрузкой аватара и заявка на роль организатора.
//
// View безопасен для вызова из нескольких горутин, но сетевые вызовы
// выполняются без удержания блокировки.
package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/social-hub/internal/client"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// Сообщения, которые видит пользователь.
const (
	MsgFetchFailed  = "Failed to fetch profile"
	MsgUpdated      = "Profile Updated!"
	MsgUpdateFailed = "Update failed. Please try again."
	MsgRequestSent  = "Organizer Request Sent!"
)

// ErrSubmitInFlight — повторная отправка формы до завершения предыдущей.
var ErrSubmitInFlight = errors.New("submit already in progress")

// State — состояние экрана.
type State int

// Состояния экрана.
const (
	StateLoading State = iota
	StateRateLimited
	StateError
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateRateLimited:
		return "rate-limited"
	case StateError:
		return "error"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// API — вызовы сервера, которые нужны экрану.
type API interface {
	FetchProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	RequestOrganizer(ctx context.Context) (*models.User, error)
}

// Uploader загружает изображение и возвращает его URL.
type Uploader interface {
	Upload(ctx context.Context, name string, content io.Reader) (string, error)
}

// Notifier показывает всплывающие уведомления.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Clock отмеряет секунды обратного отсчёта.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock — системные часы.
var RealClock Clock = realClock{}

// AvatarFile — выбранный, но ещё не загруженный файл аватара.
type AvatarFile struct {
	Name    string
	Content io.Reader
}

// Form — редактируемые поля профиля.
type Form struct {
	Name     string
	Email    string
	Password string
	Avatar   *AvatarFile
}

// Snapshot — всё, что нужно для отрисовки экрана.
type Snapshot struct {
	State           State
	Form            Form
	AvatarURL       string
	Role            string
	OrganizerStatus models.ApprovalStatus
	Error           string
	Submitting      bool
	SecondsLeft     int
}

// View хранит состояние экрана профиля.
type View struct {
	api      API
	uploader Uploader
	notifier Notifier
	log      *slog.Logger

	mu              sync.Mutex
	state           State
	form            Form
	avatarURL       string
	role            string
	organizerStatus models.ApprovalStatus
	errMsg          string
	submitting      bool
	rateLimited     bool
	secondsLeft     int
}

// NewView создаёт экран в состоянии загрузки.
func NewView(api API, uploader Uploader, notifier Notifier, log *slog.Logger) *View {
	return &View{
		api:      api,
		uploader: uploader,
		notifier: notifier,
		log:      log,
		state:    StateLoading,
	}
}

// Snapshot возвращает копию текущего состояния.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		State:           v.state,
		Form:            v.form,
		AvatarURL:       v.avatarURL,
		Role:            v.role,
		OrganizerStatus: v.organizerStatus,
		Error:           v.errMsg,
		Submitting:      v.submitting,
		SecondsLeft:     v.secondsLeft,
	}
}

// Load запрашивает профиль. 429 переводит экран в StateRateLimited
// с отсчётом retryAfter секунд, прочие ошибки в StateError.
func (v *View) Load(ctx context.Context) {
	const op = "profile.Load"

	user, err := v.api.FetchProfile(ctx)

	v.mu.Lock()
	if err == nil {
		v.form = Form{Name: user.Name, Email: user.Email}
		v.avatarURL = user.Avatar
		v.role = user.Role
		v.organizerStatus = user.OrganizerApprovalStatus
		v.errMsg = ""
		v.rateLimited = false
		v.secondsLeft = 0
		v.state = StateReady
		v.mu.Unlock()
		return
	}

	v.errMsg = MsgFetchFailed
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.RateLimited() {
		v.rateLimited = true
		v.secondsLeft = apiErr.RetryAfter
		v.state = StateRateLimited
	} else {
		v.state = StateError
	}
	v.mu.Unlock()

	v.log.Warn("failed to fetch profile", sl.Op(op), sl.Err(err))
	v.notifier.Error(MsgFetchFailed)
}

// Tick уменьшает отсчёт на секунду. Когда отсчёт доходит до нуля,
// флаг ограничения снимается и профиль запрашивается ровно один раз.
// Вне StateRateLimited ничего не делает.
func (v *View) Tick(ctx context.Context) {
	v.mu.Lock()
	if !v.rateLimited {
		v.mu.Unlock()
		return
	}
	if v.secondsLeft > 0 {
		v.secondsLeft--
	}
	refetch := v.secondsLeft == 0
	if refetch {
		v.rateLimited = false
		v.state = StateLoading
	}
	v.mu.Unlock()

	if refetch {
		v.Load(ctx)
	}
}

// Run ведёт обратный отсчёт, пока экран в StateRateLimited. Одновременно
// ждёт не больше одного таймера. Возвращается после повторного запроса
// или при отмене ctx.
func (v *View) Run(ctx context.Context, clock Clock) error {
	for {
		v.mu.Lock()
		limited := v.rateLimited
		v.mu.Unlock()
		if !limited {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(time.Second):
			v.Tick(ctx)
		}
	}
}

// SetName меняет имя в форме.
func (v *View) SetName(name string) {
	v.mu.Lock()
	v.form.Name = name
	v.mu.Unlock()
}

// SetEmail меняет email в форме.
func (v *View) SetEmail(email string) {
	v.mu.Lock()
	v.form.Email = email
	v.mu.Unlock()
}

// SetPassword задаёт новый пароль. Пустая строка оставляет прежний.
func (v *View) SetPassword(password string) {
	v.mu.Lock()
	v.form.Password = password
	v.mu.Unlock()
}

// SelectAvatar выбирает файл нового аватара. Загружается он только при Submit.
func (v *View) SelectAvatar(file *AvatarFile) {
	v.mu.Lock()
	v.form.Avatar = file
	v.mu.Unlock()
}

// Submit сохраняет форму. Если выбран новый аватар, он сначала загружается
// через Uploader, иначе отправляется текущий URL аватара.
func (v *View) Submit(ctx context.Context) error {
	const op = "profile.Submit"

	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return ErrSubmitInFlight
	}
	v.submitting = true
	v.errMsg = ""
	form := v.form
	avatar := v.avatarURL
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.submitting = false
		v.mu.Unlock()
	}()

	if form.Avatar != nil {
		url, err := v.uploader.Upload(ctx, form.Avatar.Name, form.Avatar.Content)
		if err != nil {
			v.fail(op, err)
			return err
		}
		avatar = url
	}

	user, err := v.api.UpdateProfile(ctx, models.ProfileUpdate{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Avatar:   avatar,
	})
	if err != nil {
		v.fail(op, err)
		return err
	}

	v.mu.Lock()
	v.avatarURL = avatar
	if user != nil && user.Avatar != "" {
		v.avatarURL = user.Avatar
	}
	v.form.Password = ""
	v.form.Avatar = nil
	v.mu.Unlock()

	v.notifier.Success(MsgUpdated)
	return nil
}

// RequestOrganizer подаёт заявку на роль организатора.
func (v *View) RequestOrganizer(ctx context.Context) error {
	const op = "profile.RequestOrganizer"

	if _, err := v.api.RequestOrganizer(ctx); err != nil {
		v.fail(op, err)
		return err
	}

	v.mu.Lock()
	v.organizerStatus = models.ApprovalPending
	v.mu.Unlock()

	v.notifier.Success(MsgRequestSent)
	return nil
}

// fail показывает текст ошибки сервера, если он есть, и уведомление.
func (v *View) fail(op string, err error) {
	msg := MsgUpdateFailed
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message != "" {
		msg = apiErr.Message
	}

	v.mu.Lock()
	v.errMsg = msg
	v.mu.Unlock()

	v.log.Warn("request failed", sl.Op(op), sl.Err(err))
	v.notifier.Error(MsgUpdateFailed)
}
