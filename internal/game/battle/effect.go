package battle

// EffectKind names an external side effect requested by a transition.
type EffectKind string

const (
	EffectSyncHP        EffectKind = "sync_hp"
	EffectSyncVitality  EffectKind = "sync_vitality"
	EffectGrantItem     EffectKind = "grant_item"
	EffectConsumeItem   EffectKind = "consume_item"
	EffectReportVictory EffectKind = "report_victory"
)

// Effect is a request for a collaborator outside the engine. Effects are
// reported after the state they describe is committed and are never awaited.
type Effect struct {
	Kind     EffectKind     `json:"kind"`
	BattleID string         `json:"battle_id"`
	HP       int            `json:"hp,omitempty"`
	Vitality int            `json:"vitality,omitempty"`
	ItemSlug string         `json:"item_slug,omitempty"`
	Victory  *VictoryReport `json:"victory,omitempty"`
}

// VictoryReport is sent to the world-impact collaborator.
type VictoryReport struct {
	Action     string   `json:"action"`
	Impacts    []string `json:"impacts"`
	ScenarioID string   `json:"scenario_id"`
}

// EffectSink receives each committed transition's effects. Dispatch must not
// block the caller.
type EffectSink interface {
	Dispatch(effects []Effect)
}
