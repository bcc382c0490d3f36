package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/elim2g/quicken/game"
	"github.com/elim2g/quicken/movement"
	"github.com/elim2g/quicken/prediction"
	"github.com/elim2g/quicken/simulation"
	"github.com/elim2g/quicken/world"
	"github.com/elim2g/quicken/worker"
)

func main() {
	addr := flag.String("addr", ":8380", "spectator websocket listen address")
	bots := flag.Int("bots", 4, "number of scripted bots")
	profile := flag.String("profile", prediction.PresetLenient, "netcode profile preset")
	seed := flag.Int64("seed", 1, "bot input jitter seed")
	flag.Parse()

	lg := logrus.New()
	lg.Formatter = &logrus.TextFormatter{ForceColors: true}
	lg.Level = logrus.DebugLevel

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			lg.WithError(err).Warn("sentry disabled")
		}
	}

	srv := simulation.NewServer(world.TestRoom())
	srv.SetLogger(lg)
	if err := srv.SetProfilePreset(*profile); err != nil {
		lg.WithError(err).Fatal("unknown profile preset")
	}

	rng := rand.New(rand.NewSource(*seed))
	var bs []*bot
	for i := 0; i < *bots; i++ {
		bs = append(bs, newBot(srv, rng))
	}

	watchers := newSpectators(lg)
	http.HandleFunc("/watch", watchers.serve)
	go func() {
		defer sentry.Recover()
		if err := http.ListenAndServe(*addr, nil); err != nil {
			lg.WithError(err).Fatal("spectator listener failed")
		}
	}()
	lg.WithField("addr", *addr).Info("spectator stream listening")

	last := time.Now()
	for range time.Tick(time.Second / game.TickRate) {
		now := time.Now()
		frameDt := float32(now.Sub(last).Seconds())
		last = now

		for _, b := range bs {
			b.deliver(srv)
		}
		srv.Advance(frameDt)
		watchers.broadcast(srv, bs)
	}
}

// bot is a scripted player whose inputs reach the server through a jittered
// delivery queue, exercising the predictor the way a lossy link would.
type bot struct {
	id      uint64
	tick    uint32
	rng     *rand.Rand
	pending []movement.InputCommand
	holdFor int
}

func newBot(srv *simulation.Server, rng *rand.Rand) *bot {
	spawn := mgl32.Vec3{float32(rng.Intn(400) - 200), float32(rng.Intn(400) - 200), 40}
	c := srv.Connect(spawn)
	return &bot{id: c.ID, rng: rng}
}

// deliver generates this tick's input and flushes the pending queue unless a
// simulated burst of jitter is holding it back.
func (b *bot) deliver(srv *simulation.Server) {
	cmd := movement.InputCommand{
		Tick:        b.tick,
		ForwardMove: 127,
		Yaw:         game.DegToAngle16(float32(b.tick) * (1 + float32(b.id))),
	}
	if b.tick%31 == 0 {
		cmd.Buttons |= movement.ButtonJump
	}
	b.tick++
	b.pending = append(b.pending, cmd)

	if b.holdFor > 0 {
		b.holdFor--
		return
	}
	if b.rng.Intn(20) == 0 {
		b.holdFor = b.rng.Intn(6)
		return
	}
	for _, p := range b.pending {
		srv.BufferInput(b.id, p)
	}
	b.pending = b.pending[:0]
}

type snapshot struct {
	Tick    uint64       `json:"tick"`
	Profile string       `json:"profile"`
	Players []playerView `json:"players"`
}

type playerView struct {
	ID        uint64     `json:"id"`
	Origin    [3]float32 `json:"origin"`
	Velocity  [3]float32 `json:"velocity"`
	State     string     `json:"state"`
	Predicted bool       `json:"predicted"`
}

// spectators fans simulation snapshots out to websocket watchers.
type spectators struct {
	lg       *logrus.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newSpectators(lg *logrus.Logger) *spectators {
	return &spectators{
		lg:       lg,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		conns:    map[*websocket.Conn]struct{}{},
	}
}

func (s *spectators) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.lg.WithError(err).Debug("spectator upgrade failed")
		return
	}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	s.lg.WithField("remote", conn.RemoteAddr()).Info("spectator joined")
}

func (s *spectators) broadcast(srv *simulation.Server, bs []*bot) {
	s.mu.Lock()
	idle := len(s.conns) == 0
	s.mu.Unlock()
	if idle {
		return
	}

	snap := snapshot{Tick: srv.Tick(), Profile: srv.Profile().Name}
	for _, b := range bs {
		c := srv.Client(b.id)
		if c == nil {
			continue
		}
		snap.Players = append(snap.Players, playerView{
			ID:        c.ID,
			Origin:    c.Player.Origin,
			Velocity:  c.Player.Velocity,
			State:     c.MoveState.String(),
			Predicted: c.LastPredicted,
		})
	}

	worker.Submit(func() {
		payload, err := json.Marshal(snap)
		if err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for conn := range s.conns {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(s.conns, conn)
			}
		}
	})
}
