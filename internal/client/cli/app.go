package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/medguide/internal/client/client"
	"github.com/dmitrijs2005/medguide/internal/client/config"
	"github.com/dmitrijs2005/medguide/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/medguide/internal/client/repositories/users"
	"github.com/dmitrijs2005/medguide/internal/client/securestore"
	"github.com/dmitrijs2005/medguide/internal/client/services"
	"github.com/dmitrijs2005/medguide/internal/client/storage"
	"github.com/dmitrijs2005/medguide/internal/filex"
	"github.com/dmitrijs2005/medguide/internal/logging"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// authAPI is the slice of the credential service the CLI needs. The real
// services.AuthService satisfies it; tests can provide a fake.
type authAPI interface {
	Register(ctx context.Context, email, password, fullName string, isStaff bool) (*services.User, error)
	Login(ctx context.Context, email, password string) (*services.User, error)
}

// tokenAPI is the slice of the session token service the CLI needs.
type tokenAPI interface {
	SaveToken(ctx context.Context, data services.TokenData) error
	GetToken(ctx context.Context) (string, error)
	RemoveToken(ctx context.Context) error
	HasValidToken(ctx context.Context) (bool, error)
	DecodeToken(raw string) *services.DecodedToken
}

// App wires the local credential and session services together and holds
// the state of the interactive session.
type App struct {
	config       *config.Config
	log          logging.Logger
	authService  authAPI
	tokenService tokenAPI
	secureStore  *securestore.SecureStore
	reader       *bufio.Reader

	// currentUser is read by the REPL and written by the session watcher
	// goroutine; mu guards it.
	mu          sync.Mutex
	currentUser *services.User
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))).
		With("session_id", uuid.NewString())

	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		log.Error(ctx, "error preparing data directory", "error", err)
		return nil, err
	}
	if _, err := filex.EnsureParentDir(c.SecretPath); err != nil {
		log.Error(ctx, "error preparing secret directory", "error", err)
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store, err := storage.New(db)
	if err != nil {
		log.Error(ctx, "error probing store capabilities", "error", err)
		return nil, err
	}

	kv := kvstore.NewSQLiteRepository(db)

	secure, err := securestore.New(kv, c.SecretPath, log)
	if err != nil {
		log.Error(ctx, "error opening secure store", "error", err)
		return nil, err
	}

	return &App{
		config:       c,
		log:          log,
		authService:  services.NewAuthService(users.NewSQLiteRepository(store), log),
		tokenService: services.NewTokenService(kv, log),
		secureStore:  secure,
		reader:       bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setUser(u *services.User) {
	a.mu.Lock()
	a.currentUser = u
	a.mu.Unlock()
}

func (a *App) user() *services.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentUser
}

func (a *App) isLoggedIn() bool {
	return a.user() != nil
}

// Run starts the interactive shell and the background session watcher,
// returning when the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartSessionWatcher(ctx, a.config.SessionCheckInterval)
	a.Root(ctx)
}

// StartSessionWatcher periodically re-checks the stored token; a session
// whose token expired while the app was idle is reported once and the
// local user state is dropped so the next action asks for credentials
// again. A user authenticated locally without any stored token is left
// alone: only a token that was previously observed counts as expired.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.log.Warn(ctx, "session watcher disabled: non-positive interval", "interval", interval)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hadToken := false
	for {
		select {
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			ok, err := a.tokenService.HasValidToken(checkCtx)
			cancel()

			if err != nil {
				a.log.Warn(ctx, "session check failed", "error", err)
				continue
			}
			if ok {
				hadToken = true
				continue
			}
			if hadToken && a.isLoggedIn() {
				a.log.Warn(ctx, "session expired, please log in again")
				a.setUser(nil)
				hadToken = false
			}

		case <-ctx.Done():
			return
		}
	}
}
