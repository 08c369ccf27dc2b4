package api

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ocrdesk/internal/controller"
	"ocrdesk/internal/download"
)

const (
	sessionCookieName = "desk_session"
	sessionContextKey = "desk_session"

	DefaultSessionIdleTimeout = 30 * time.Minute
)

type deskSession struct {
	id         string
	controller *controller.Controller
	downloads  *download.StoreDownloader
	lastUsed   time.Time
}

// Sessions keeps one controller per browser session and drops idle ones.
type Sessions struct {
	service  controller.Service
	store    download.Store
	basePath string
	idle     time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*deskSession
}

func NewSessions(service controller.Service, store download.Store, basePath string, idle time.Duration) *Sessions {
	if idle <= 0 {
		idle = DefaultSessionIdleTimeout
	}
	return &Sessions{
		service:  service,
		store:    store,
		basePath: basePath,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*deskSession),
	}
}

// Middleware attaches the caller's session, creating one when the request carries
// no known session id. The cookie is re-sent on every request so it expires only
// after the idle timeout.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookieName)
		sess, _ := s.ensure(id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookieName, sess.id, int(s.idle.Seconds()), "/", "", false, true)
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func (s *Sessions) ensure(id string) (*deskSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.lastUsed = s.now()
		return sess, false
	}
	downloads := download.NewStoreDownloader(s.store, s.basePath)
	sess := &deskSession{
		id:         uuid.NewString(),
		controller: controller.New(s.service, downloads),
		downloads:  downloads,
		lastUsed:   s.now(),
	}
	s.sessions[sess.id] = sess
	debugLog("session %s created", sess.id)
	return sess, true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartPurger drops sessions idle for longer than the idle timeout until ctx is done.
func (s *Sessions) StartPurger(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go s.purgeLoop(ctx, interval)
}

func (s *Sessions) purgeLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.purgeIdle(); n > 0 {
				log.Printf("purged %d idle desk sessions", n)
			}
		}
	}
}

func (s *Sessions) purgeIdle() int {
	cutoff := s.now().Add(-s.idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

// drainView returns the view carrying the pending notices, each handed out once.
func (s *deskSession) drainView() controller.View {
	notices := s.controller.DrainNotices()
	view := s.controller.View()
	view.Notices = notices
	return view
}

func sessionFrom(c *gin.Context) *deskSession {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*deskSession)
	return sess
}
