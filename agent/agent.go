package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nstehr/arena-core/ipc"
	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/rules"
	"github.com/nstehr/arena-core/scoring"
	"github.com/nstehr/arena-core/steering"
	"github.com/nstehr/arena-core/tuning"
)

// Decision is the result of one tick.
type Decision struct {
	Moves       []model.Move       `json:"moves"`
	Objective   *scoring.Objective `json:"objective,omitempty"`
	Destination model.Position     `json:"destination"`
	NoObjective bool               `json:"no_objective"`
	Fired       []string           `json:"fired"`
}

// Agent owns the decision-making for any number of player sessions. Play is
// safe for concurrent use; each call is independent of every other.
type Agent struct {
	mu      sync.RWMutex
	brain   *brain
	monitor *Monitor
}

// brain is everything derived from one tuning. It is never mutated, so a
// tick that holds one sees rules, selector and steering from the same tuning.
type brain struct {
	tuning   tuning.Tuning
	selector *scoring.Selector
	steering *steering.Controller
	engine   *rules.Engine
}

func newBrain(t tuning.Tuning) (*brain, error) {
	t.Validate()
	engine, err := rules.NewEngine(rules.CompileTuning(t))
	if err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}
	return &brain{
		tuning:   t,
		selector: scoring.NewSelector(t),
		steering: steering.NewController(t.Steering),
		engine:   engine,
	}, nil
}

// New builds an agent from a tuning. monitor may be nil.
func New(t tuning.Tuning, monitor *Monitor) (*Agent, error) {
	b, err := newBrain(t)
	if err != nil {
		return nil, err
	}
	return &Agent{brain: b, monitor: monitor}, nil
}

// Retune swaps in a new tuning. If the new rule set fails to compile the old
// tuning stays active.
func (a *Agent) Retune(t tuning.Tuning) error {
	b, err := newBrain(t)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.brain = b
	a.mu.Unlock()
	slog.Info("tuning swapped", "rules", b.engine.Rules())
	return nil
}

func (a *Agent) current() *brain {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.brain
}

// Play runs one tick: pick an objective, compose moves, steer. A tick with
// no eligible objective is not an error; it returns only the moves that
// don't need a target.
func (a *Agent) Play(snap model.Snapshot) Decision {
	b := a.current()

	self := snap.OwnPlayer
	rivals := snap.Rivals()
	obj := b.selector.Select(self, snap.Candidates(), snap.Hazards, snap.Enemies, rivals)

	plan := b.engine.Evaluate(rules.RuleEnv{
		Self:      self,
		Objective: obj,
		Creatures: snap.Enemies,
		Rivals:    rivals,
		Hazards:   snap.Hazards,
		Obstacles: snap.Obstacles,
		Tuning:    b.tuning,
		Steering:  b.steering,
	})

	d := Decision{
		Moves:       plan.Moves,
		Objective:   obj,
		Destination: plan.Destination,
		NoObjective: plan.NoObjective,
		Fired:       plan.Fired,
	}
	if d.Moves == nil {
		d.Moves = []model.Move{}
	}

	if obj != nil {
		slog.Debug("tick decided",
			"player", self.ID,
			"objective", obj.Entity.String(),
			"xp", obj.XP,
			"moves", len(d.Moves),
			"fired", plan.Fired,
		)
	} else {
		slog.Info("no objective this tick", "player", self.ID, "moves", len(d.Moves))
	}

	if a.monitor != nil {
		a.monitor.Observe(snap)
	}
	return d
}

// HandleHello completes the handshake so the bridge knows we're ready.
func (a *Agent) HandleHello() ipc.Handler {
	return func(env ipc.Envelope) (*ipc.Envelope, error) {
		var hello ipc.HelloMessage
		if err := json.Unmarshal(env.Data, &hello); err != nil {
			return nil, fmt.Errorf("unmarshal hello: %w", err)
		}
		slog.Info("player identified", "player", hello.Player)

		ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
		if err != nil {
			return nil, err
		}
		return &ack, nil
	}
}

// HandleLevelData decodes a snapshot envelope and replies with the moves.
func (a *Agent) HandleLevelData() ipc.Handler {
	return func(env ipc.Envelope) (*ipc.Envelope, error) {
		snap, err := model.DecodeSnapshot(env.Data)
		if err != nil {
			return nil, fmt.Errorf("decode level data: %w", err)
		}
		d := a.Play(snap)
		reply, err := ipc.NewEnvelope(ipc.TypeMoves, ipc.MovesMessage{
			Moves:       d.Moves,
			NoObjective: d.NoObjective,
		})
		if err != nil {
			return nil, err
		}
		return &reply, nil
	}
}
