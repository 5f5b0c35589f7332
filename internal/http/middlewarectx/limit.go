package middlewarectx

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/social-hub/internal/config"
	"github.com/magabrotheeeer/social-hub/internal/http/response"
	"github.com/magabrotheeeer/social-hub/internal/metrics"
)

// LimiterStore хранит token bucket на каждого клиента. Записи, к которым
// не обращались дольше idleTTL, удаляются.
type LimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	every    time.Duration
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiterStore создает хранилище лимитеров по настройкам cfg. Если
// RequestsPerMinute <= 0, ограничение отключено.
func NewLimiterStore(cfg config.RateLimit) *LimiterStore {
	s := &LimiterStore{
		limiters: make(map[string]*limiterEntry),
		burst:    cfg.Burst,
		idleTTL:  cfg.IdleTTL,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if cfg.RequestsPerMinute > 0 {
		s.every = time.Minute / time.Duration(cfg.RequestsPerMinute)
	}
	if s.burst <= 0 {
		s.burst = 1
	}
	if s.idleTTL <= 0 {
		s.idleTTL = 15 * time.Minute
	}
	return s
}

// StartCleanup запускает фоновую очистку устаревших записей до вызова Stop.
func (s *LimiterStore) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.cleanup()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop останавливает фоновую очистку.
func (s *LimiterStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// reserve проверяет, можно ли пропустить запрос клиента key. Если нельзя,
// возвращает число секунд до появления токена (не меньше 1).
func (s *LimiterStore) reserve(key string) (bool, int) {
	if s.every <= 0 {
		return true, 0
	}

	s.mu.Lock()
	entry, ok := s.limiters[key]
	now := s.now()
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(s.every), s.burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	s.mu.Unlock()

	if entry.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := entry.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, retryAfterSeconds(delay)
}

func (s *LimiterStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.limiters, key)
		}
	}
}

func (s *LimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

func retryAfterSeconds(delay time.Duration) int {
	secs := int(math.Ceil(delay.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// RateLimitMiddleware ограничивает частоту запросов на клиента. Ключом служит
// аутентифицированный пользователь, если он уже есть в контексте, иначе IP.
// При превышении отвечает 429 с заголовком Retry-After и полем retryAfter в теле.
func RateLimitMiddleware(log *slog.Logger, store *LimiterStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			ok, retryAfter := store.reserve(key)
			if !ok {
				log.Warn("too many requests",
					slog.String("op", "middlewarectx.RateLimitMiddleware"),
					slog.String("client", key),
					slog.Int("retry_after", retryAfter),
				)
				metrics.RateLimited.Inc()
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.RateLimited(retryAfter))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey определяет клиента. X-Forwarded-For учитывается через
// middleware.RealIP, который переписывает RemoteAddr.
func clientKey(r *http.Request) string {
	if actor, ok := ActorFromContext(r.Context()); ok {
		return "user:" + actor.UserUID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
