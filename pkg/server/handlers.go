package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rankplay/pkg/cache"
	"github.com/matzehuels/rankplay/pkg/errors"
	"github.com/matzehuels/rankplay/pkg/playback"
	"github.com/matzehuels/rankplay/pkg/render/nodelink"
)

// PlayerView is the JSON form of a player.
type PlayerView struct {
	ID    string         `json:"id"`
	State playback.State `json:"state"`
}

// AllView is the JSON form of the synchronizer state.
type AllView struct {
	Position  int   `json:"position"`
	Upper     int   `json:"upper"`
	Positions []int `json:"positions"`
	Playing   bool  `json:"playing"`
}

type playerKey struct{}

// withPlayer resolves the {id} URL parameter.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, ok := s.byID[id]
		if !ok {
			writeError(w, errors.New(errors.ErrCodePlayerNotFound, "no player with id %q", id))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playerKey{}, p)))
	})
}

func playerFrom(r *http.Request) *Player {
	return r.Context().Value(playerKey{}).(*Player)
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	views := make([]PlayerView, len(s.players))
	for i, p := range s.players {
		views[i] = viewOf(p)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(playerFrom(r)))
}

func (s *Server) handlePlayerAction(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	c := p.Ctrl
	switch action := chi.URLParam(r, "action"); action {
	case "play":
		c.Play()
	case "pause":
		c.Pause()
	case "toggle":
		c.Toggle()
	case "forward":
		c.StepForward()
	case "backward":
		c.StepBackward()
	case "reset":
		c.Reset()
	default:
		writeError(w, errors.New(errors.ErrCodeNotFound, "unknown action %q", action))
		return
	}
	writeJSON(w, http.StatusOK, viewOf(p))
}

func (s *Server) handlePlayerSeek(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, err)
		return
	}
	p := playerFrom(r)
	p.Ctrl.GoToFrame(i)
	writeJSON(w, http.StatusOK, viewOf(p))
}

func (s *Server) handlePlayerSpeed(w http.ResponseWriter, r *http.Request) {
	d, err := speedParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p := playerFrom(r)
	p.Ctrl.SetSpeed(d)
	writeJSON(w, http.StatusOK, viewOf(p))
}

func (s *Server) handleAllState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.allView())
}

func (s *Server) handleAllAction(w http.ResponseWriter, r *http.Request) {
	switch action := chi.URLParam(r, "action"); action {
	case "play":
		s.sync.PlayAll()
	case "pause":
		s.sync.PauseAll()
	case "toggle":
		s.sync.ToggleAll()
	case "forward":
		s.sync.StepAllForward()
	case "backward":
		s.sync.StepAllBackward()
	case "reset":
		s.sync.ResetAll()
	default:
		writeError(w, errors.New(errors.ErrCodeNotFound, "unknown action %q", action))
		return
	}
	writeJSON(w, http.StatusOK, s.allView())
}

func (s *Server) handleAllSeek(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, err)
		return
	}
	s.sync.SeekAll(i)
	writeJSON(w, http.StatusOK, s.allView())
}

func (s *Server) handleAllSpeed(w http.ResponseWriter, r *http.Request) {
	d, err := speedParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.sync.SetSpeedAll(d)
	writeJSON(w, http.StatusOK, s.allView())
}

// handleFrame renders one frame of a player's sequence. Indices are clamped
// like everywhere else in playback.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, err)
		return
	}
	p := playerFrom(r)
	seq := p.Ctrl.Sequence()
	i = seq.Clamp(i)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	opts := nodelink.Options{Detailed: s.detailed, Previous: seq.DegreesBefore(i)}
	dot := nodelink.ToDOT(seq.At(i), seq.Kind(), opts)

	switch format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(dot))
	case "svg":
		key := s.keyer.FrameKey(p.seqHash, i, cache.FrameKeyOpts{Format: format, Detailed: s.detailed})
		data, hit, err := cache.Fetch(r.Context(), s.cache, key, "frame", s.ttl, func() ([]byte, error) {
			return nodelink.RenderSVG(r.Context(), dot)
		})
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render frame %d", i))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("X-Cache", cacheStatus(hit))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported frame format %q (must be 'svg' or 'dot')", format))
	}
}

func (s *Server) allView() AllView {
	pos, upper := s.sync.Progress()
	return AllView{
		Position:  pos,
		Upper:     upper,
		Positions: s.sync.Positions(),
		Playing:   s.sync.AnyPlaying(),
	}
}

func viewOf(p *Player) PlayerView {
	return PlayerView{ID: p.ID, State: p.Ctrl.State()}
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func speedParam(r *http.Request) (time.Duration, error) {
	ms, err := intParam(r, "ms")
	if err != nil {
		return 0, err
	}
	if limit := int(playback.MaxSpeed / time.Millisecond); ms > limit {
		return 0, errors.New(errors.ErrCodeInvalidInput, "speed must be at most %d ms, got %d", limit, ms)
	}
	// Negative values clamp to MinSpeed in the controller.
	return time.Duration(max(ms, 0)) * time.Millisecond, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorBody{
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
