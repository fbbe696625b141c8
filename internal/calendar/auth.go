package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/julianstephens/habittracker/internal/keyring"
	"github.com/julianstephens/habittracker/internal/logger"
)

// ErrNoToken is returned by a TokenStore that holds no token yet
var ErrNoToken = errors.New("no calendar token stored")

// TokenStore persists the OAuth token between runs
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
	Delete() error
}

// TokenSource obtains a fresh token interactively
type TokenSource interface {
	Token(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// OAuthConfig parses a Google client secret JSON for calendar access
func OAuthConfig(secret []byte) (*oauth2.Config, error) {
	conf, err := google.ConfigFromJSON(secret, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar credentials: %w", err)
	}
	return conf, nil
}

// Client returns an HTTP client authorized for the calendar API. A stored
// token is reused; otherwise flow is run and its token saved. Refreshed
// tokens are written back to store.
func Client(ctx context.Context, conf *oauth2.Config, store TokenStore, flow TokenSource) (*http.Client, error) {
	tok, err := Authorize(ctx, conf, store, flow)
	if err != nil {
		return nil, err
	}
	ts := &savingTokenSource{
		base:  conf.TokenSource(ctx, tok),
		store: store,
		last:  tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

// Authorize returns the stored token, running flow only when none exists
func Authorize(ctx context.Context, conf *oauth2.Config, store TokenStore, flow TokenSource) (*oauth2.Token, error) {
	tok, err := store.Load()
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, ErrNoToken) {
		return nil, err
	}

	tok, err = flow.Token(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize calendar access: %w", err)
	}
	if err := store.Save(tok); err != nil {
		return nil, err
	}
	logger.Info("Calendar access authorized")
	return tok, nil
}

type savingTokenSource struct {
	base  oauth2.TokenSource
	store TokenStore
	last  string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.store.Save(tok); err != nil {
			logger.Warn("Failed to persist refreshed calendar token", "error", err)
		}
	}
	return tok, nil
}

// StoredTokenOnly never authorizes. It makes a syncer use the stored token
// or fail with ErrNoToken, for callers that cannot show a consent prompt.
type StoredTokenOnly struct{}

func (StoredTokenOnly) Token(context.Context, *oauth2.Config) (*oauth2.Token, error) {
	return nil, ErrNoToken
}

// LoopbackFlow runs the installed-app OAuth flow: it serves the redirect on a
// random 127.0.0.1 port and waits for the browser to return the code.
type LoopbackFlow struct {
	Prompt func(authURL string)
}

func (f *LoopbackFlow) Token(ctx context.Context, base *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start oauth receiver: %w", err)
	}

	conf := *base
	conf.RedirectURL = "http://" + ln.Addr().String() + "/callback"
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	codes := make(chan string, 1)
	errs := make(chan error, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			sendErr(errs, errors.New("oauth state mismatch"))
			return
		}
		if msg := r.FormValue("error"); msg != "" {
			http.Error(w, "authorization denied", http.StatusForbidden)
			sendErr(errs, fmt.Errorf("authorization denied: %s", msg))
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window.")
		select {
		case codes <- r.FormValue("code"):
		default:
		}
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errs, err)
		}
	}()
	defer srv.Close()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	if f.Prompt != nil {
		f.Prompt(authURL)
	} else {
		fmt.Printf("Open the following link in your browser to authorize calendar access:\n%s\n", authURL)
	}

	select {
	case code := <-codes:
		tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
		}
		return tok, nil
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// FileTokenStore keeps the token as JSON in Dir/token.json
type FileTokenStore struct {
	Path string
}

func NewFileTokenStore(dir, name string) *FileTokenStore {
	return &FileTokenStore{Path: filepath.Join(dir, name)}
}

func (s *FileTokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read calendar token: %w", err)
	}
	return decodeToken(data)
}

func (s *FileTokenStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode calendar token: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write calendar token: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Delete() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove calendar token: %w", err)
	}
	return nil
}

// KeyringTokenStore keeps the token in the OS keyring
type KeyringTokenStore struct{}

func (KeyringTokenStore) Load() (*oauth2.Token, error) {
	secret, err := keyring.GetCalendarToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	return decodeToken([]byte(secret))
}

func (KeyringTokenStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode calendar token: %w", err)
	}
	return keyring.SetCalendarToken(string(data))
}

func (KeyringTokenStore) Delete() error {
	err := keyring.DeleteCalendarToken()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

func decodeToken(data []byte) (*oauth2.Token, error) {
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("failed to decode calendar token: %w", err)
	}
	return tok, nil
}
