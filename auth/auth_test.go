// path: auth/auth_test.go
package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]models.User
	byEml map[string]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]models.User{}, byEml: map[string]models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEml[u.Email]; ok {
		return store.ErrEmailTaken
	}
	m.byID[u.ID] = u
	m.byEml[u.Email] = u
	return nil
}

func (m *memUsers) GetUser(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEml[email]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func signUp(t *testing.T, s *Service) models.User {
	t.Helper()
	u, err := s.SignUp(context.Background(), SignUpInput{
		FirstName:  "Ana",
		LastName:   "Quispe",
		NationalID: "12345678",
		Email:      "ana@example.com",
		Password:   "hunter22",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	return u
}

func TestSignUpAlwaysCreatesCitizens(t *testing.T) {
	t.Parallel()
	s := NewService(newMemUsers())
	u := signUp(t, s)
	if u.Role != models.RoleCitizen {
		t.Fatalf("role = %q, want citizen; self-registration must never escalate", u.Role)
	}
	if u.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if u.PasswordHash == "hunter22" {
		t.Fatal("password must not be stored in the clear")
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()
	s := NewService(newMemUsers())
	signUp(t, s)
	_, err := s.SignUp(context.Background(), SignUpInput{Email: "ana@example.com", Password: "hunter22"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	t.Parallel()
	s := NewService(newMemUsers())
	if _, err := s.SignUp(context.Background(), SignUpInput{Email: "not-an-email", Password: "hunter22"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("err = %v, want ErrInvalidEmail", err)
	}
	if _, err := s.SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}
}

func TestSignInRoundTrip(t *testing.T) {
	t.Parallel()
	s := NewService(newMemUsers())
	created := signUp(t, s)

	sess, u, err := s.SignIn(context.Background(), "ANA@example.com ", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if u.ID != created.ID || sess.UserID != created.ID {
		t.Fatal("session bound to the wrong user")
	}
	if sess.Token == "" {
		t.Fatal("expected an opaque token")
	}

	got, err := s.UserFromToken(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("UserFromToken: %v", err)
	}
	if got.ID != created.ID {
		t.Fatal("token resolved to the wrong user")
	}

	s.SignOut(sess.Token)
	if _, err := s.UserFromToken(context.Background(), sess.Token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err after sign-out = %v, want ErrNoSession", err)
	}
}

func TestSignInWrongCredentials(t *testing.T) {
	t.Parallel()
	s := NewService(newMemUsers())
	signUp(t, s)

	if _, _, err := s.SignIn(context.Background(), "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := s.SignIn(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthObserver(t *testing.T) {
	t.Parallel()
	s := NewService(newMemUsers())
	created := signUp(t, s)

	var mu sync.Mutex
	var seen []string
	unsubscribe := s.OnAuthChange(func(userID string) {
		mu.Lock()
		seen = append(seen, userID)
		mu.Unlock()
	})

	sess, _, err := s.SignIn(context.Background(), "ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	s.SignOut(sess.Token)

	mu.Lock()
	got := append([]string(nil), seen...)
	mu.Unlock()
	if len(got) != 2 || got[0] != created.ID || got[1] != "" {
		t.Fatalf("observer saw %v, want [%s \"\"]", got, created.ID)
	}

	// After unsubscribing the listener stays silent.
	unsubscribe()
	sess2, _, err := s.SignIn(context.Background(), "ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	s.SignOut(sess2.Token)
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("unsubscribed listener still notified: %v", seen)
	}
}

func TestMessageMapping(t *testing.T) {
	t.Parallel()
	known := []error{ErrInvalidCredentials, ErrInvalidEmail, ErrEmailTaken, ErrWeakPassword, ErrNoSession}
	msgs := map[string]bool{}
	for _, err := range known {
		m := Message(err)
		if m == "" || m == err.Error() {
			t.Fatalf("no mapped message for %v", err)
		}
		if msgs[m] {
			t.Fatalf("duplicate message %q", m)
		}
		msgs[m] = true
	}
	if got := Message(errors.New("quota exceeded")); got != "quota exceeded" {
		t.Fatalf("unmapped failure should surface raw, got %q", got)
	}
}
