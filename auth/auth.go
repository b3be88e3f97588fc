// path: auth/auth.go

// Package auth provides sign-up, sign-in, sign-out, and a current-session
// observer over the users collection. Session state lives here, as the
// single source of truth handlers are given, not in scattered globals.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

var (
	ErrInvalidCredentials = errors.New("auth/invalid-credential")
	ErrInvalidEmail       = errors.New("auth/invalid-email")
	ErrEmailTaken         = errors.New("auth/email-already-in-use")
	ErrWeakPassword       = errors.New("auth/weak-password")
	ErrNoSession          = errors.New("auth/no-session")
)

// Message maps known auth failure codes to human-readable text; unmapped
// failures surface their raw message.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect email or password."
	case errors.Is(err, ErrInvalidEmail):
		return "That email address is not valid."
	case errors.Is(err, ErrEmailTaken):
		return "An account with that email already exists."
	case errors.Is(err, ErrWeakPassword):
		return "Password must be at least 6 characters."
	case errors.Is(err, ErrNoSession):
		return "You are not signed in."
	default:
		return err.Error()
	}
}

// Session is a signed-in identity. Tokens are opaque and unguessable.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}

// Listener observes session changes. It receives the user id on sign-in
// and "" on sign-out.
type Listener func(userID string)

type SignUpInput struct {
	FirstName  string
	LastName   string
	NationalID string
	Email      string
	Password   string
}

// Service owns sessions and listeners. Init happens at construction,
// teardown through Close.
type Service struct {
	users store.Users

	mu        sync.Mutex
	sessions  map[string]Session
	listeners map[int]Listener
	nextID    int
	closed    bool
}

func NewService(users store.Users) *Service {
	return &Service{
		users:     users,
		sessions:  map[string]Session{},
		listeners: map[int]Listener{},
	}
}

// SignUp registers a new citizen account. The role is not an input:
// self-service registration only ever produces citizens; authority and
// admin accounts are provisioned out of band.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") {
		return models.User{}, ErrInvalidEmail
	}
	if len(in.Password) < 6 {
		return models.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	u := models.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		NationalID:   strings.TrimSpace(in.NationalID),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleCitizen,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return u, nil
}

// SignIn verifies credentials and opens a session, notifying observers.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, models.User{}, ErrInvalidCredentials
	}

	sess := Session{Token: uuid.NewString(), UserID: u.ID, CreatedAt: time.Now().UTC()}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(u.ID)
	}
	return sess, u, nil
}

// SignOut closes the session and notifies observers with "".
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if !ok {
		return
	}
	for _, fn := range listeners {
		fn("")
	}
}

// UserFromToken resolves a session token to its account document.
func (s *Service) UserFromToken(ctx context.Context, token string) (models.User, error) {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		return models.User{}, ErrNoSession
	}
	return s.users.GetUser(ctx, sess.UserID)
}

// OnAuthChange subscribes a session observer. The returned function
// unsubscribes it.
func (s *Service) OnAuthChange(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close drops all sessions and listeners; the explicit teardown half of
// the service lifecycle.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.sessions = map[string]Session{}
	s.listeners = map[int]Listener{}
}

// snapshotListeners must be called with mu held.
func (s *Service) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}
