package service

import (
	"sync"

	"github.com/gofiber/utils/v2"
	"github.com/google/uuid"

	"floorplanner/internal/planner/tool"
)

// ============================================================
// Session Manager
// ============================================================

type drawing struct {
	planID  string
	session *tool.Session
}

// SessionManager выдает токены сессий рисования. Сама tool.Session не
// потокобезопасна: обращения к ней идут под блокировкой плана (Plans.Update).
type SessionManager struct {
	mu       sync.Mutex
	drawings map[string]drawing // token -> drawing
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		drawings: make(map[string]drawing),
	}
}

func (m *SessionManager) Issue(planID string, s *tool.Session) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	// planID может ссылаться на буфер запроса fiber
	m.drawings[token] = drawing{planID: utils.CopyString(planID), session: s}
	return token
}

func (m *SessionManager) Resolve(token string) (string, *tool.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drawings[token]
	return d.planID, d.session, ok
}

// Close forgets the token. It reports whether the token existed.
func (m *SessionManager) Close(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.drawings[token]
	delete(m.drawings, token)
	return ok
}

// CloseForPlan drops every session of a deleted plan and returns how many
// were closed.
func (m *SessionManager) CloseForPlan(planID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for token, d := range m.drawings {
		if d.planID == planID {
			delete(m.drawings, token)
			n++
		}
	}
	return n
}
