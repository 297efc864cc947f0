package agentdb

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"

	"posbound/internal/rational"
)

// Database resolves agent types to their movement parameters.
type Database interface {
	Lookup(t AgentType) (*AgentParameters, error)
}

//go:embed agents.yaml
var bundled []byte

var loadBundled = sync.OnceValues(func() (*Registry, error) {
	return Load(bundled)
})

// Default returns the registry parsed from the bundled agents.yaml.
func Default() (*Registry, error) {
	return loadBundled()
}

// Registry is an in-memory Database that keeps agents in declaration order.
type Registry struct {
	agents      *orderedmap.OrderedMap[AgentType, *AgentParameters]
	fingerprint uint64
}

// Lookup implements Database.
func (r *Registry) Lookup(t AgentType) (*AgentParameters, error) {
	p, ok := r.agents.Get(t)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, t)
	}
	return p, nil
}

// Types returns all agent types in the order they were declared.
func (r *Registry) Types() []AgentType {
	return r.agents.Keys()
}

// Approximate returns the agent types whose parameters are estimates, in
// declaration order.
func (r *Registry) Approximate() []AgentType {
	var out []AgentType
	for el := r.agents.Front(); el != nil; el = el.Next() {
		if el.Value.Approximate {
			out = append(out, el.Key)
		}
	}
	return out
}

// Len returns the number of agent types.
func (r *Registry) Len() int {
	return r.agents.Len()
}

// Fingerprint identifies the source document the registry was parsed from.
func (r *Registry) Fingerprint() string {
	return fmt.Sprintf("%016x", r.fingerprint)
}

// --- YAML schema ---

type document struct {
	Agents []agentRecord `yaml:"agents"`
}

type agentRecord struct {
	Type         string         `yaml:"type"`
	Speed        []string       `yaml:"speed"`
	Spawn        []int64        `yaml:"spawn"`
	ChillImmune  bool           `yaml:"chill_immune"`
	FreezeImmune bool           `yaml:"freeze_immune"`
	Approximate  bool           `yaml:"approximate"`
	Movement     movementRecord `yaml:"movement"`
}

type movementRecord struct {
	Model   string   `yaml:"model"`
	Frames  []string `yaml:"frames"`
	Frames2 []string `yaml:"frames2"`
}

// LoadFromPath reads an agent database file.
func LoadFromPath(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent database: %w", err)
	}
	return Load(data)
}

// Load parses an agent database document.
func Load(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse agent database: %w", err)
	}
	reg := &Registry{
		agents:      orderedmap.NewOrderedMap[AgentType, *AgentParameters](),
		fingerprint: xxh3.Hash(data),
	}
	for i, rec := range doc.Agents {
		p, err := rec.params()
		if err != nil {
			return nil, fmt.Errorf("agent #%d (%s): %w", i+1, rec.Type, err)
		}
		if _, dup := reg.agents.Get(p.Type); dup {
			return nil, fmt.Errorf("agent #%d: duplicate type %q", i+1, p.Type)
		}
		reg.agents.Set(p.Type, p)
	}
	return reg, nil
}

func (rec agentRecord) params() (*AgentParameters, error) {
	if rec.Type == "" {
		return nil, fmt.Errorf("missing type")
	}
	if len(rec.Speed) != 2 {
		return nil, fmt.Errorf("speed must be [min, max], got %d values", len(rec.Speed))
	}
	if len(rec.Spawn) != 2 {
		return nil, fmt.Errorf("spawn must be [min, max], got %d values", len(rec.Spawn))
	}
	speed, err := parseNums(rec.Speed)
	if err != nil {
		return nil, fmt.Errorf("speed: %w", err)
	}
	if speed[1].Less(speed[0]) {
		return nil, fmt.Errorf("speed min %s exceeds max %s", speed[0], speed[1])
	}
	if speed[0].Sign() < 0 {
		return nil, fmt.Errorf("negative speed %s", speed[0])
	}
	if rec.Spawn[1] < rec.Spawn[0] {
		return nil, fmt.Errorf("spawn min %d exceeds max %d", rec.Spawn[0], rec.Spawn[1])
	}
	model, err := rec.Movement.model()
	if err != nil {
		return nil, fmt.Errorf("movement: %w", err)
	}
	return &AgentParameters{
		Type:         AgentType(rec.Type),
		SpeedMin:     speed[0],
		SpeedMax:     speed[1],
		SpawnMin:     rec.Spawn[0],
		SpawnMax:     rec.Spawn[1],
		ChillImmune:  rec.ChillImmune,
		FreezeImmune: rec.FreezeImmune,
		Movement:     model,
		Approximate:  rec.Approximate,
	}, nil
}

func (rec movementRecord) model() (MovementModel, error) {
	frames := func(raw []string, field string) ([]rational.Num, error) {
		if len(raw) == 0 {
			return nil, fmt.Errorf("model %q requires %s", rec.Model, field)
		}
		nums, err := parseNums(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return nums, nil
	}

	switch rec.Model {
	case "constant":
		return Constant{}, nil
	case "animation":
		f, err := frames(rec.Frames, "frames")
		if err != nil {
			return nil, err
		}
		return Animation{Frames: f}, nil
	case "regular":
		f1, err := frames(rec.Frames, "frames")
		if err != nil {
			return nil, err
		}
		f2, err := frames(rec.Frames2, "frames2")
		if err != nil {
			return nil, err
		}
		return RegularWalk{Walk: f1, Walk2: f2}, nil
	case "dance_cheat":
		return DanceCheat{}, nil
	case "dancing":
		f, err := frames(rec.Frames, "frames")
		if err != nil {
			return nil, err
		}
		return DancingWalk{Frames: f}, nil
	case "zomboni":
		return ZomboniDrive{}, nil
	case "":
		return nil, fmt.Errorf("missing model")
	default:
		return nil, fmt.Errorf("unknown model %q", rec.Model)
	}
}

func parseNums(raw []string) ([]rational.Num, error) {
	out := make([]rational.Num, len(raw))
	for i, s := range raw {
		n, err := rational.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
