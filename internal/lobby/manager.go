// Package lobby manages pre-game rooms addressed by short join codes.
package lobby

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the lifecycle stage of a lobby.
type State string

const (
	StateWaiting State = "WAITING"
	StateStarted State = "STARTED"
)

// CodeAlphabet omits characters that are easy to misread (0/O, 1/I).
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	ErrNotFound       = errors.New("Lobby not found")
	ErrStarted        = errors.New("Game already started")
	ErrFull           = errors.New("Lobby is full")
	ErrNotHost        = errors.New("Only the host can start the game")
	ErrNotMember      = errors.New("Player is not in this lobby")
	ErrNameTaken      = errors.New("Player name already taken")
	ErrNameRequired   = errors.New("Player name is required")
	ErrNotEnoughSeats = errors.New("Not enough players")
)

// Member is a seat in a lobby. The id becomes the player id of the game.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is a consistent copy of a lobby.
type Snapshot struct {
	ID         string    `json:"id"`
	HostID     string    `json:"hostId"`
	State      State     `json:"state"`
	Players    []Member  `json:"players"`
	MaxPlayers int       `json:"maxPlayers"`
	CreateTime time.Time `json:"createdAt"`
}

// Lobby is a waiting room. Its fields are guarded by the manager.
type Lobby struct {
	Code       string
	HostID     string
	State      State
	Members    []Member
	CreateTime time.Time
}

func (l *Lobby) snapshot(maxPlayers int) Snapshot {
	return Snapshot{
		ID:         l.Code,
		HostID:     l.HostID,
		State:      l.State,
		Players:    append([]Member(nil), l.Members...),
		MaxPlayers: maxPlayers,
		CreateTime: l.CreateTime,
	}
}

func (l *Lobby) indexOf(memberID string) int {
	for i, m := range l.Members {
		if m.ID == memberID {
			return i
		}
	}
	return -1
}

func (l *Lobby) hasName(name string) bool {
	for _, m := range l.Members {
		if strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

// Manager owns every open lobby.
type Manager struct {
	lobbies    map[string]*Lobby
	codeLength int
	maxPlayers int
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewManager creates a lobby manager issuing codes of codeLength characters
// and seating at most maxPlayers per lobby.
func NewManager(codeLength, maxPlayers int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		lobbies:    make(map[string]*Lobby),
		codeLength: codeLength,
		maxPlayers: maxPlayers,
		logger:     logger,
	}
}

// NormalizeCode canonicalizes a user-typed room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create opens a lobby with hostName as its first member and host.
func (m *Manager) Create(hostName string) (Snapshot, Member, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return Snapshot{}, Member{}, ErrNameRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var code string
	for {
		c, err := GenerateCode(m.codeLength)
		if err != nil {
			return Snapshot{}, Member{}, err
		}
		if _, exists := m.lobbies[c]; !exists {
			code = c
			break
		}
	}

	host := Member{ID: uuid.NewString(), Name: hostName}
	l := &Lobby{
		Code:       code,
		HostID:     host.ID,
		State:      StateWaiting,
		Members:    []Member{host},
		CreateTime: time.Now(),
	}
	m.lobbies[code] = l

	m.logger.Info("lobby created",
		zap.String("lobby_id", code),
		zap.String("host", hostName),
	)

	return l.snapshot(m.maxPlayers), host, nil
}

// Join seats name in the lobby identified by code.
func (m *Manager) Join(code, name string) (Snapshot, Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, Member{}, ErrNameRequired
	}
	code = NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[code]
	if !ok {
		return Snapshot{}, Member{}, ErrNotFound
	}
	if l.State != StateWaiting {
		return Snapshot{}, Member{}, ErrStarted
	}
	if len(l.Members) >= m.maxPlayers {
		return Snapshot{}, Member{}, ErrFull
	}
	// Reconnect-by-name needs names to be unique within a game.
	if l.hasName(name) {
		return Snapshot{}, Member{}, ErrNameTaken
	}

	member := Member{ID: uuid.NewString(), Name: name}
	l.Members = append(l.Members, member)

	m.logger.Info("player joined lobby",
		zap.String("lobby_id", code),
		zap.String("player", name),
		zap.Int("players", len(l.Members)),
	)

	return l.snapshot(m.maxPlayers), member, nil
}

// Leave removes a member from a waiting lobby. The host role passes to the
// next member; an empty lobby is closed. The returned bool reports whether
// the lobby still exists.
func (m *Manager) Leave(code, memberID string) (Snapshot, bool, error) {
	code = NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[code]
	if !ok {
		return Snapshot{}, false, ErrNotFound
	}
	if l.State != StateWaiting {
		return Snapshot{}, true, ErrStarted
	}
	i := l.indexOf(memberID)
	if i < 0 {
		return Snapshot{}, true, ErrNotMember
	}

	name := l.Members[i].Name
	l.Members = append(l.Members[:i], l.Members[i+1:]...)

	if len(l.Members) == 0 {
		delete(m.lobbies, code)
		m.logger.Info("lobby closed", zap.String("lobby_id", code))
		return Snapshot{}, false, nil
	}
	if l.HostID == memberID {
		l.HostID = l.Members[0].ID
	}

	m.logger.Info("player left lobby",
		zap.String("lobby_id", code),
		zap.String("player", name),
	)
	return l.snapshot(m.maxPlayers), true, nil
}

// Start moves a lobby to STARTED and returns its final seating. Only the
// host may start.
func (m *Manager) Start(code, memberID string) (Snapshot, error) {
	code = NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[code]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if l.State != StateWaiting {
		return Snapshot{}, ErrStarted
	}
	if l.HostID != memberID {
		return Snapshot{}, ErrNotHost
	}
	if len(l.Members) < 1 {
		return Snapshot{}, ErrNotEnoughSeats
	}

	l.State = StateStarted

	m.logger.Info("lobby started",
		zap.String("lobby_id", code),
		zap.Int("players", len(l.Members)),
	)
	return l.snapshot(m.maxPlayers), nil
}

// Get returns a snapshot of the lobby identified by code.
func (m *Manager) Get(code string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lobbies[NormalizeCode(code)]
	if !ok {
		return Snapshot{}, false
	}
	return l.snapshot(m.maxPlayers), true
}

// Remove discards a lobby, for example after its game finished.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code = NormalizeCode(code)
	if _, ok := m.lobbies[code]; !ok {
		return
	}
	delete(m.lobbies, code)
	m.logger.Info("lobby removed", zap.String("lobby_id", code))
}

// Count returns the number of open lobbies.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lobbies)
}

// GenerateCode returns n random characters from CodeAlphabet.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", n)
	}
	b := make([]byte, n)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate lobby code: %w", err)
		}
		b[i] = CodeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
