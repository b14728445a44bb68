package database

import (
	"rmmz-mcp/internal/gamedata"
)

// Damage types used by skills.
const (
	DamageNone      = 0
	DamageHP        = 1
	DamageMP        = 2
	DamageHPRecover = 3
	DamageMPRecover = 4
	DamageHPDrain   = 5
	DamageMPDrain   = 6
)

// Effect codes used by the skill presets.
const (
	EffectAddState  = 21
	EffectAddBuff   = 31
	EffectAddDebuff = 32
)

// Hit types.
const (
	HitCertain  = 0
	HitPhysical = 1
	HitMagical  = 2
)

// Effect is one entry of a skill's effects list.
type Effect struct {
	Code   int     `json:"code"`
	DataID int     `json:"dataId"`
	Value1 float64 `json:"value1"`
	Value2 float64 `json:"value2"`
}

// Damage is the damage block of a skill record.
type Damage struct {
	Type      int    `json:"type"`
	ElementID int    `json:"elementId"`
	Formula   string `json:"formula"`
	Variance  int    `json:"variance"`
	Critical  bool   `json:"critical"`
}

// Skill is a skill record as written by CreateSkill. Field order matches the file.
type Skill struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	IconIndex        int      `json:"iconIndex"`
	MPCost           int      `json:"mpCost"`
	TPCost           int      `json:"tpCost"`
	TPGain           int      `json:"tpGain"`
	Scope            int      `json:"scope"`
	Occasion         int      `json:"occasion"`
	Speed            int      `json:"speed"`
	SuccessRate      int      `json:"successRate"`
	Repeats          int      `json:"repeats"`
	HitType          int      `json:"hitType"`
	AnimationID      int      `json:"animationId"`
	Damage           Damage   `json:"damage"`
	Effects          []Effect `json:"effects"`
	Message1         string   `json:"message1"`
	Message2         string   `json:"message2"`
	Note             string   `json:"note"`
	StypeID          int      `json:"stypeId"`
	RequiredWtypeID1 int      `json:"requiredWtypeId1"`
	RequiredWtypeID2 int      `json:"requiredWtypeId2"`
	MessageType      int      `json:"messageType"`
	Traits           []any    `json:"traits"`
}

// DamageParams are the optional damage settings of a new skill.
type DamageParams struct {
	Type      *int    `json:"type,omitempty"`
	ElementID *int    `json:"elementId,omitempty"`
	Formula   *string `json:"formula,omitempty"`
	Variance  *int    `json:"variance,omitempty"`
	Critical  *bool   `json:"critical,omitempty"`
}

// SkillParams are the caller-supplied fields of a new skill. Nil means "use the
// default"; an explicit zero is kept.
type SkillParams struct {
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	IconIndex   *int          `json:"iconIndex,omitempty"`
	MPCost      *int          `json:"mpCost,omitempty"`
	TPCost      *int          `json:"tpCost,omitempty"`
	TPGain      *int          `json:"tpGain,omitempty"`
	Scope       *int          `json:"scope,omitempty"`
	Occasion    *int          `json:"occasion,omitempty"`
	Speed       *int          `json:"speed,omitempty"`
	SuccessRate *int          `json:"successRate,omitempty"`
	Repeats     *int          `json:"repeats,omitempty"`
	HitType     *int          `json:"hitType,omitempty"`
	AnimationID *int          `json:"animationId,omitempty"`
	Damage      *DamageParams `json:"damage,omitempty"`
	Effects     []Effect      `json:"effects,omitempty"`
	Message1    *string       `json:"message1,omitempty"`
	Message2    *string       `json:"message2,omitempty"`
	Note        *string       `json:"note,omitempty"`
	StypeID     *int          `json:"stypeId,omitempty"`
}

// NewSkill applies the creation defaults to p.
func NewSkill(id int, p SkillParams) Skill {
	d := p.Damage
	if d == nil {
		d = &DamageParams{}
	}
	damageType := intOr(d.Type, DamageNone)

	hitType := HitMagical
	if damageType == DamageHP || damageType == DamageHPDrain {
		hitType = HitPhysical
	}

	effects := p.Effects
	if effects == nil {
		effects = []Effect{}
	}

	return Skill{
		ID:          id,
		Name:        p.Name,
		Description: stringOr(p.Description, ""),
		IconIndex:   intOr(p.IconIndex, 64),
		MPCost:      intOr(p.MPCost, 0),
		TPCost:      intOr(p.TPCost, 0),
		TPGain:      intOr(p.TPGain, 0),
		Scope:       intOr(p.Scope, 1),
		Occasion:    intOr(p.Occasion, 1),
		Speed:       intOr(p.Speed, 0),
		SuccessRate: intOr(p.SuccessRate, 100),
		Repeats:     intOr(p.Repeats, 1),
		HitType:     intOr(p.HitType, hitType),
		AnimationID: intOr(p.AnimationID, 0),
		Damage: Damage{
			Type:      damageType,
			ElementID: intOr(d.ElementID, 0),
			Formula:   stringOr(d.Formula, "0"),
			Variance:  intOr(d.Variance, 20),
			Critical:  boolOr(d.Critical, false),
		},
		Effects:     effects,
		Message1:    stringOr(p.Message1, ""),
		Message2:    stringOr(p.Message2, ""),
		Note:        stringOr(p.Note, ""),
		StypeID:     intOr(p.StypeID, 1),
		MessageType: 1,
		Traits:      []any{},
	}
}

// Skills is the repository for Skills.json plus the skill constructors.
type Skills struct {
	*Repository
}

// NewSkills returns the skill repository for store.
func NewSkills(store *gamedata.Store) *Skills {
	return &Skills{Repository: NewRepository(store, SkillFamily)}
}

// CreateSkill appends a skill built from p under the next free id.
func (s *Skills) CreateSkill(p SkillParams) (*gamedata.Record, error) {
	return s.Insert(func(id int) (*gamedata.Record, error) {
		return gamedata.RecordOf(NewSkill(id, p))
	})
}

// CreateDamageSkill creates an HP damage skill. elementID and description are optional.
func (s *Skills) CreateDamageSkill(name, formula string, mpCost, scope int, elementID *int, description *string) (*gamedata.Record, error) {
	desc, message, err := s.presetText(presetDamage, name, description)
	if err != nil {
		return nil, err
	}
	return s.CreateSkill(SkillParams{
		Name:        name,
		Description: &desc,
		MPCost:      &mpCost,
		Scope:       &scope,
		Damage: &DamageParams{
			Type:      ptr(DamageHP),
			ElementID: ptr(intOr(elementID, 0)),
			Formula:   &formula,
			Variance:  ptr(20),
			Critical:  ptr(true),
		},
		AnimationID: ptr(1),
		Message1:    &message,
		StypeID:     ptr(1),
	})
}

// CreateHealingSkill creates an HP recovery skill.
func (s *Skills) CreateHealingSkill(name, formula string, mpCost, scope int, description *string) (*gamedata.Record, error) {
	desc, message, err := s.presetText(presetHealing, name, description)
	if err != nil {
		return nil, err
	}
	return s.CreateSkill(SkillParams{
		Name:        name,
		Description: &desc,
		MPCost:      &mpCost,
		Scope:       &scope,
		Damage: &DamageParams{
			Type:      ptr(DamageHPRecover),
			ElementID: ptr(0),
			Formula:   &formula,
			Variance:  ptr(20),
			Critical:  ptr(false),
		},
		AnimationID: ptr(47),
		Message1:    &message,
		StypeID:     ptr(1),
		IconIndex:   ptr(72),
	})
}

// CreateBuffSkill creates a skill that adds a buff to parameter buffType for turns turns.
func (s *Skills) CreateBuffSkill(name string, buffType, turns, mpCost, scope int, description *string) (*gamedata.Record, error) {
	desc, message, err := s.presetText(presetBuff, name, description)
	if err != nil {
		return nil, err
	}
	return s.CreateSkill(SkillParams{
		Name:        name,
		Description: &desc,
		MPCost:      &mpCost,
		Scope:       &scope,
		Effects: []Effect{
			{Code: EffectAddBuff, DataID: buffType, Value1: float64(turns)},
		},
		AnimationID: ptr(52),
		Message1:    &message,
		StypeID:     ptr(1),
		IconIndex:   ptr(73),
	})
}

// CreateDebuffSkill creates a skill that adds a debuff to parameter debuffType for turns turns.
func (s *Skills) CreateDebuffSkill(name string, debuffType, turns, mpCost, scope int, description *string) (*gamedata.Record, error) {
	desc, message, err := s.presetText(presetDebuff, name, description)
	if err != nil {
		return nil, err
	}
	return s.CreateSkill(SkillParams{
		Name:        name,
		Description: &desc,
		MPCost:      &mpCost,
		Scope:       &scope,
		Effects: []Effect{
			{Code: EffectAddDebuff, DataID: debuffType, Value1: float64(turns)},
		},
		AnimationID: ptr(40),
		Message1:    &message,
		StypeID:     ptr(1),
		IconIndex:   ptr(74),
	})
}

// CreateStateSkill creates a skill that inflicts stateID with the given chance.
func (s *Skills) CreateStateSkill(name string, stateID int, chance float64, mpCost, scope int, description *string) (*gamedata.Record, error) {
	desc, message, err := s.presetText(presetState, name, description)
	if err != nil {
		return nil, err
	}
	return s.CreateSkill(SkillParams{
		Name:        name,
		Description: &desc,
		MPCost:      &mpCost,
		Scope:       &scope,
		Effects: []Effect{
			{Code: EffectAddState, DataID: stateID, Value1: chance},
		},
		Damage: &DamageParams{
			Type:      ptr(DamageNone),
			ElementID: ptr(0),
			Formula:   ptr("0"),
			Variance:  ptr(20),
			Critical:  ptr(false),
		},
		AnimationID: ptr(1),
		Message1:    &message,
		StypeID:     ptr(1),
	})
}

func ptr[T any](v T) *T { return &v }

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
