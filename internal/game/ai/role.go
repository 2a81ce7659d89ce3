// Package ai resolves party members' turns: role and grade classification
// followed by a fixed decision sequence (heal, wait, buff, attack, fallback).
package ai

import (
	"strings"

	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/party"
)

// Role is a party member's tactical role.
type Role string

const (
	Guardian Role = "guardian"
	Medic    Role = "medic"
	Striker  Role = "striker"
)

// Grade controls how deliberately a member spends AP.
type Grade string

const (
	// Smart members conserve AP for expensive cards.
	Smart Grade = "smart"
	// Random members break cost ties arbitrarily.
	Random Grade = "random"
)

// healerJobs is the job class allowlist that makes a member a medic.
var healerJobs = []string{"cleric", "priest", "healer", "saint", "medic", "僧侶", "ヒーラー", "神官"}

// DetermineRole classifies m. Defensive stats win over deck contents.
func DetermineRole(m *combat.PartyMember) Role {
	if m.Def >= 3 || m.CoverRate >= 30 {
		return Guardian
	}
	for _, c := range m.Deck {
		if card.HealName(c.Name) || c.Power < 0 {
			return Medic
		}
	}
	job := strings.ToLower(m.JobClass)
	for _, h := range healerJobs {
		if job == h {
			return Medic
		}
	}
	return Striker
}

// DetermineGrade classifies m by origin.
func DetermineGrade(m *combat.PartyMember) Grade {
	if m.OriginType == party.OriginShadowHeroic {
		return Smart
	}
	return Random
}
