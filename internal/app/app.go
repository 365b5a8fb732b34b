package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/campusvote/internal/auth"
	"github.com/abrezinsky/campusvote/internal/handlers"
	"github.com/abrezinsky/campusvote/internal/kiosk"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/repository"
	"github.com/abrezinsky/campusvote/internal/services"
	"github.com/abrezinsky/campusvote/internal/websocket"
	"github.com/abrezinsky/campusvote/pkg/roster"
)

// Options configures a new App
type Options struct {
	DBPath string
	// Roster is the school information system. Nil runs on the local
	// student table alone.
	Roster          roster.Client
	KioskResetDelay time.Duration
	PhaseInterval   time.Duration
}

// App holds all application dependencies
type App struct {
	log          logger.Logger
	handlers     *handlers.Handlers
	repo         *repository.Repository
	kiosks       *kiosk.Manager
	cancelTicker context.CancelFunc
	closed       bool
}

// New creates and initializes a new application instance
func New(log logger.Logger, opts Options, adminAuth *auth.Auth) (*App, error) {
	if adminAuth == nil {
		return nil, errors.New("admin auth is required")
	}
	repo, err := repository.New(opts.DBPath)
	if err != nil {
		return nil, err
	}

	// Local students first so a roster outage never blocks known students
	directory := services.ChainDirectory{services.NewLocalDirectory(repo)}
	if opts.Roster != nil {
		directory = append(directory, services.NewRosterDirectory(opts.Roster))
	}

	// Initialize services
	auditService := services.NewAuditService(log, repo)
	settingsService := services.NewSettingsService(log, repo)
	categoryService := services.NewCategoryService(log, repo)
	ballotService := services.NewBallotService(log, repo, settingsService, directory)
	resultsService := services.NewResultsService(log, repo, settingsService)
	dispatchService := services.NewDispatchService(log, directory, settingsService, ballotService)
	studentService := services.NewStudentService(log, repo, opts.Roster)
	canteenService := services.NewCanteenService(log, repo, directory)

	settingsService.SetAuditLogger(auditService)
	categoryService.SetAuditLogger(auditService)
	ballotService.SetAuditLogger(auditService)
	canteenService.SetAuditLogger(auditService)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, settingsService)
	hub.Start()
	settingsService.SetBroadcaster(hub)
	ballotService.SetBroadcaster(hub)

	interval := opts.PhaseInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	go hub.StartPhaseTicker(ctx, interval)

	resetDelay := opts.KioskResetDelay
	if resetDelay <= 0 {
		resetDelay = 5 * time.Second
	}
	kiosks := kiosk.NewManager(log, adminAuth, dispatchService, resetDelay)
	kiosks.SetAuditLogger(auditService)
	kiosks.SetNotifier(hub)

	h := handlers.New(handlers.Services{
		Settings: settingsService,
		Category: categoryService,
		Ballot:   ballotService,
		Results:  resultsService,
		Dispatch: dispatchService,
		Student:  studentService,
		Canteen:  canteenService,
		Audit:    auditService,
	}, kiosks, adminAuth, hub, log)

	return &App{
		log:          log,
		handlers:     h,
		repo:         repo,
		kiosks:       kiosks,
		cancelTicker: cancel,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close stops background work and releases the database
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.cancelTicker != nil {
		a.cancelTicker()
	}
	a.kiosks.Close()
	if err := a.repo.Close(); err != nil {
		a.log.Warn("Failed to close database", "error", err)
	}
}

// Run serves HTTP on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds
func (a *App) Run(ctx context.Context, addr, baseURL string) error {
	baseURL = resolveBaseURL(baseURL, addr, realNetworkProvider{})
	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Admin API", "url", baseURL+"/api/admin")

	srv := &http.Server{Addr: addr, Handler: a.Router()}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// resolveBaseURL swaps a localhost base URL for the LAN address, since
// kiosks on other machines cannot reach localhost
func resolveBaseURL(configured, addr string, provider networkProvider) string {
	if configured != "" && !strings.Contains(configured, "localhost") {
		return strings.TrimRight(configured, "/")
	}
	return fmt.Sprintf("http://%s%s", getPreferredIP(provider), addr)
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists the host's interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN access, preferring
// private ranges and falling back to localhost
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
