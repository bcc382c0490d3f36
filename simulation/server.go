package simulation

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/elim2g/quicken/movement"
	"github.com/elim2g/quicken/oerror"
	"github.com/elim2g/quicken/prediction"
	"github.com/elim2g/quicken/world"
)

// Client is one connected player's server-side simulation state: the
// authoritative movement state plus the prediction bookkeeping in front of
// it.
type Client struct {
	ID     uint64
	Player *movement.PlayerState
	Pred   *prediction.ClientState

	// MoveState is the classification fed to the predictor and correction
	// blend, refreshed after every tick's resolution.
	MoveState movement.MoveState

	// LastPredicted marks whether the most recent tick ran on a synthesized
	// input; gameplay suppresses damage and scoring while it is set.
	LastPredicted bool

	// PrevOrigin is the origin before the latest tick, for render
	// interpolation by Alpha.
	PrevOrigin mgl32.Vec3
}

// Server drives the authoritative simulation: one world, a strict sequential
// tick over all connected clients, and a single active netcode profile
// swapped only at tick boundaries.
type Server struct {
	world   *world.World
	driver  *Driver
	log     *logrus.Logger
	profile prediction.Profile
	// pendingProfile is applied at the top of the next Step so a swap never
	// interleaves with a tick in progress.
	pendingProfile *prediction.Profile

	clients []*Client
	nextID  uint64
}

// NewServer creates a server over an already loaded world. The default
// profile is the lenient preset; logging is discarded unless SetLogger
// installs a real sink.
func NewServer(w *world.World) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	prof, _ := prediction.Preset(prediction.PresetLenient)
	return &Server{
		world:   w,
		driver:  NewDriver(),
		log:     log,
		profile: prof,
		nextID:  1,
	}
}

func (s *Server) SetLogger(log *logrus.Logger) {
	if log != nil {
		s.log = log
	}
}

// Profile returns the profile in effect for the current tick.
func (s *Server) Profile() prediction.Profile {
	return s.profile
}

// SetProfile stages a profile to become active at the next tick boundary.
func (s *Server) SetProfile(p prediction.Profile) {
	staged := p
	s.pendingProfile = &staged
}

// SetProfilePreset stages a named preset, erroring on unknown names.
func (s *Server) SetProfilePreset(name string) error {
	p, ok := prediction.Preset(name)
	if !ok {
		return oerror.New("simulation: unknown netcode profile %q", name)
	}
	s.SetProfile(p)
	return nil
}

// Connect adds a player at the given spawn position and returns its client.
func (s *Server) Connect(spawn mgl32.Vec3) *Client {
	c := &Client{
		ID:         s.nextID,
		Player:     movement.NewPlayerState(spawn),
		Pred:       prediction.NewClientState(),
		PrevOrigin: spawn,
	}
	s.nextID++
	s.clients = append(s.clients, c)
	s.log.WithFields(logrus.Fields{
		"client": c.ID,
		"spawn":  spawn,
	}).Info("client connected")
	return c
}

// Disconnect removes a client. Its prediction state is reset so a pooled
// reuse cannot leak stale inputs.
func (s *Server) Disconnect(id uint64) bool {
	for i, c := range s.clients {
		if c.ID == id {
			c.Pred.Reset()
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			s.log.WithField("client", id).Info("client disconnected")
			return true
		}
	}
	return false
}

func (s *Server) Client(id uint64) *Client {
	for _, c := range s.clients {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Server) ClientCount() int {
	return len(s.clients)
}

// BufferInput feeds a real input to a client's jitter buffer.
func (s *Server) BufferInput(id uint64, cmd movement.InputCommand) bool {
	c := s.Client(id)
	if c == nil {
		return false
	}
	if c.Pred.BufferInput(cmd) {
		s.log.WithFields(logrus.Fields{
			"client": id,
			"tick":   cmd.Tick,
		}).Warn("input ring overflow, oldest command dropped")
	}
	return true
}

// Step runs one fixed tick over every client in connect order. The order has
// no observable effect since clients do not collide with each other, but it
// keeps replays byte-stable.
func (s *Server) Step(dt float32) {
	if s.pendingProfile != nil {
		s.profile = *s.pendingProfile
		s.pendingProfile = nil
		s.log.WithField("profile", s.profile.Name).Info("netcode profile activated")
	}

	for _, c := range s.clients {
		cmd, predicted, speedScale := c.Pred.Consume(&s.profile, c.MoveState)
		c.LastPredicted = predicted

		c.PrevOrigin = c.Player.Origin
		movement.Resolve(s.world, c.Player, cmd, dt, speedScale)
		c.MoveState = movement.Classify(c.Player)
	}
}

// Advance folds real frame time into the fixed-tick driver.
func (s *Server) Advance(frameDt float32) {
	s.driver.Advance(frameDt, func(_ uint64, dt float32) {
		s.Step(dt)
	})
}

// Alpha exposes the driver's interpolation fraction for presentation.
func (s *Server) Alpha() float32 {
	return s.driver.Alpha()
}

// Tick is the completed fixed-tick count.
func (s *Server) Tick() uint64 {
	return s.driver.Tick()
}
