// Package agentdb holds the read-only movement parameters of every agent type.
package agentdb

import (
	"errors"

	"posbound/internal/freeze"
	"posbound/internal/rational"
)

// ErrNotFound is returned when an agent type is not in the database.
var ErrNotFound = errors.New("agent type not found")

// AgentType identifies an agent kind, e.g. "Regular" or "Gargantuar".
type AgentType string

// Well-known agent types of the bundled database.
const (
	Regular        AgentType = "Regular"
	Conehead       AgentType = "Conehead"
	Buckethead     AgentType = "Buckethead"
	PoleVaulting   AgentType = "PoleVaulting"
	Football       AgentType = "Football"
	Dancing        AgentType = "Dancing"
	BackupDancer   AgentType = "BackupDancer"
	Zomboni        AgentType = "Zomboni"
	Gargantuar     AgentType = "Gargantuar"
	GigaGargantuar AgentType = "GigaGargantuar"
	Imp            AgentType = "Imp"
)

// AgentParameters describes how an agent type moves.
type AgentParameters struct {
	Type         AgentType
	SpeedMin     rational.Num
	SpeedMax     rational.Num
	SpawnMin     int64
	SpawnMax     int64
	ChillImmune  bool
	FreezeImmune bool
	Movement     MovementModel
	// Approximate marks parameters that were estimated rather than measured.
	// Bounds computed from them are not exact.
	Approximate bool
}

// Immunity returns the agent's immunity flags for timeline construction.
func (p *AgentParameters) Immunity() freeze.Immunity {
	return freeze.Immunity{Chill: p.ChillImmune, Freeze: p.FreezeImmune}
}

// MovementModel is one of Constant, Animation, RegularWalk, DanceCheat,
// DancingWalk or ZomboniDrive. The set is closed: only this package can add variants.
type MovementModel interface {
	// Name returns the model name used in database files.
	Name() string
	isMovementModel()
}

// Constant agents walk at a fixed speed.
type Constant struct{}

// Animation agents are moved by a cyclic table of per-frame ground displacements.
type Animation struct {
	Frames []rational.Num
}

// RegularWalk agents pick one of two walk animations.
type RegularWalk struct {
	Walk  []rational.Num
	Walk2 []rational.Num
}

// DanceCheat agents moonwalk under the dance cheat. Not supported by the engine.
type DanceCheat struct{}

// DancingWalk agents walk an animation only until they start summoning.
type DancingWalk struct {
	Frames []rational.Num
}

// ZomboniDrive agents decelerate with their position instead of animating.
type ZomboniDrive struct{}

func (Constant) Name() string     { return "constant" }
func (Animation) Name() string    { return "animation" }
func (RegularWalk) Name() string  { return "regular" }
func (DanceCheat) Name() string   { return "dance_cheat" }
func (DancingWalk) Name() string  { return "dancing" }
func (ZomboniDrive) Name() string { return "zomboni" }

func (Constant) isMovementModel()     {}
func (Animation) isMovementModel()    {}
func (RegularWalk) isMovementModel()  {}
func (DanceCheat) isMovementModel()   {}
func (DancingWalk) isMovementModel()  {}
func (ZomboniDrive) isMovementModel() {}
