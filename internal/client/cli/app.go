package cli

import (
	"bufio"
	"context"
	"fmt"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/client/client"
	"github.com/dmitrijs2005/wardminutes/internal/client/config"
	"github.com/dmitrijs2005/wardminutes/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/wardminutes/internal/client/services"
	"github.com/dmitrijs2005/wardminutes/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	authService services.AuthService
	stores      *services.Stores
	transfer    *services.TransferService
	drafts      drafts.Repository
	db          *sql.DB

	reader *bufio.Reader
	out    io.Writer

	mu   sync.RWMutex
	mode Mode
	role string

	form       *services.FormSession
	stopForm   context.CancelFunc
	formClosed chan struct{}
}

// NewApp opens the local database and, unless the config says otherwise,
// the connection to the document store.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop{}
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}
	repos := client.NewRepositories(db)

	var remote client.Client
	if c.UseRemote {
		gc, err := client.NewDocumentStoreClient(c.ServerEndpointAddr)
		if err != nil {
			log.Warn(ctx, "document store unavailable, working offline", "addr", c.ServerEndpointAddr, "error", err)
		} else {
			remote = gc
		}
	}

	stores := services.NewStores(remote, repos.Records, services.StoreOptions{
		UseRemote:     c.UseRemote,
		RemoteTimeout: c.RemoteTimeout,
		Actor:         c.UserName,
		Logger:        log,
	})

	mode := ModeDisabled
	if remote != nil {
		mode = ModeOffline
	}

	return &App{
		config:      c,
		log:         log,
		authService: services.NewAuthService(remote),
		stores:      stores,
		transfer:    services.NewTransferService(stores, remote),
		drafts:      repos.Drafts,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		mode:        mode,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.role != ""
}

// Run starts the connectivity watcher and the REPL, and releases every
// resource once the user leaves.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close(ctx)

	fmt.Fprintln(a.out, "Welcome to wardminutes (type 'help' for commands)")

	if a.config.UseRemote && a.Mode() != ModeDisabled {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close(ctx context.Context) {
	a.closeForm(ctx, true)
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "closing remote client", "error", err)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// StartOnlineStatusWatcher pings the server every interval and switches the
// mode accordingly until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				if a.Mode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else if a.Mode() != ModeOnline {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
