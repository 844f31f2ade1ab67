package server

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/rankplay/pkg/cache"
	"github.com/matzehuels/rankplay/pkg/errors"
	"github.com/matzehuels/rankplay/pkg/frames"
	"github.com/matzehuels/rankplay/pkg/playback"
)

// shutdownTimeout bounds graceful shutdown in ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Config configures a Server. Zero values select defaults.
type Config struct {
	// Cache stores rendered frames. Nil disables caching.
	Cache cache.Cache

	// Keyer builds cache keys. Nil uses cache.NewDefaultKeyer.
	Keyer cache.Keyer

	// CacheTTL is the expiry of cached frames. Zero means no expiry.
	CacheTTL time.Duration

	// Detailed adds degree counters to rendered node labels.
	Detailed bool

	Logger *log.Logger
}

// Player is one controller published by the server.
type Player struct {
	ID   string
	Ctrl *playback.Controller

	seqHash string
}

// Server serves the HTTP API for a fixed set of players.
type Server struct {
	players []*Player
	byID    map[string]*Player
	sync    *playback.Synchronizer

	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	detailed bool
	logger   *log.Logger

	hub    *hub
	unsubs []func()
	router chi.Router
}

// New publishes ctrls and subscribes to their frame changes. The server does
// not own the controllers; Close only unsubscribes.
func New(ctrls []*playback.Controller, cfg Config) (*Server, error) {
	if len(ctrls) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "server needs at least one player")
	}

	s := &Server{
		byID:     make(map[string]*Player, len(ctrls)),
		cache:    cfg.Cache,
		keyer:    cfg.Keyer,
		ttl:      cfg.CacheTTL,
		detailed: cfg.Detailed,
		logger:   cfg.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NullCache{}
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.hub = newHub(s.logger)

	// Frame listeners go first so a frame event precedes the progress
	// event it causes.
	players := make([]playback.Player, len(ctrls))
	for i, c := range ctrls {
		hash, err := sequenceHash(c.Sequence())
		if err != nil {
			s.Close()
			return nil, err
		}
		p := &Player{ID: uuid.NewString(), Ctrl: c, seqHash: hash}
		s.players = append(s.players, p)
		s.byID[p.ID] = p
		s.unsubs = append(s.unsubs, c.OnChange(func(index, total int, snap *frames.Snapshot) {
			s.hub.broadcast(frameEvent(p, index, total, snap))
		}))
		players[i] = c
	}

	sync, err := playback.NewSynchronizer(players...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.sync = sync
	s.unsubs = append(s.unsubs, sync.OnProgress(func(pos, upper int) {
		s.hub.broadcast(Event{Type: EventProgress, Index: pos, Upper: upper})
	}))

	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Players returns the published players in the order they were given.
func (s *Server) Players() []*Player { return s.players }

// Synchronizer returns the synchronizer behind /api/all.
func (s *Server) Synchronizer() *playback.Synchronizer { return s.sync }

// Close unsubscribes from every player and disconnects stream clients.
func (s *Server) Close() {
	for _, u := range s.unsubs {
		u()
	}
	if s.sync != nil {
		s.sync.Close()
	}
	s.hub.close()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr, "players", len(s.players))

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Route("/api", func(r chi.Router) {
		r.Get("/players", s.handleListPlayers)
		r.Route("/players/{id}", func(r chi.Router) {
			r.Use(s.withPlayer)
			r.Get("/", s.handlePlayerState)
			r.Post("/seek/{index}", s.handlePlayerSeek)
			r.Post("/speed/{ms}", s.handlePlayerSpeed)
			r.Post("/{action}", s.handlePlayerAction)
			r.Get("/frames/{index}", s.handleFrame)
		})
		r.Route("/all", func(r chi.Router) {
			r.Get("/", s.handleAllState)
			r.Post("/seek/{index}", s.handleAllSeek)
			r.Post("/speed/{ms}", s.handleAllSpeed)
			r.Post("/{action}", s.handleAllAction)
		})
	})
	r.Get("/ws", s.hub.serve)
	return r
}

// sequenceHash identifies a sequence by the hash of its canonical encoding.
func sequenceHash(seq *frames.Sequence) (string, error) {
	var buf bytes.Buffer
	if err := frames.Write(seq, &buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode sequence")
	}
	return cache.Hash(buf.Bytes()), nil
}
