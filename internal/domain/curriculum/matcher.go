package curriculum

// ══════════════════════════════════════════════════════════════════════════════
// REQUIREMENT MATCHER
// Resolves the procedure definition a submitted record refers to. The rules
// differ per track, so the matcher lives behind a TrackPolicy selected once
// per specialization instead of track conditionals scattered through the
// validators.
//
// Modular track: exact case-insensitive name match, searched only inside the
// resident's active module. A miss is a hard rejection - the modern
// curriculum does not allow free-form procedures.
//
// Legacy track: code OR name match, case-insensitive, searched across all
// modules (legacy data may not carry a module assignment). A miss is
// tolerated with a warning - legacy curricula allow locally-defined
// procedures absent from the official template.
// ══════════════════════════════════════════════════════════════════════════════

// ProcedureMatch is the result of a successful template resolution.
type ProcedureMatch struct {
	// Procedure - the matched definition. Required counts are read from it.
	Procedure *ProcedureTemplate

	// Module - the module template owning the matched definition.
	Module *ModuleTemplate
}

// MatchMiss describes how a failed resolution must be treated.
type MatchMiss int

const (
	// MissBlocks - the record is rejected outright.
	MissBlocks MatchMiss = iota

	// MissWarns - the record is accepted with an advisory warning.
	MissWarns
)

// TrackPolicy captures the track-conditional behavior in one place:
// procedure matching and training-year semantics. Validators receive a
// policy and stay track-agnostic.
type TrackPolicy interface {
	// Track returns the track this policy implements.
	Track() Track

	// MatchProcedure resolves the template entry for a submitted procedure.
	// activeModuleID scopes the search on the modular track and is ignored
	// on the legacy track. Returns nil when nothing matches.
	MatchProcedure(tpl *Template, activeModuleID, code, name string) *ProcedureMatch

	// OnMiss returns how a failed match must be treated.
	OnMiss() MatchMiss

	// RequiresActiveModule reports whether procedure submission needs an
	// active module set on the specialization.
	RequiresActiveModule() bool

	// AcceptsYear reports whether the given training-year assignment is
	// meaningful on this track. Year 0 ("unassigned") is always accepted.
	AcceptsYear(year int) bool

	// IncludeInYearStatistics reports whether a record assigned to
	// entityYear contributes to statistics computed for targetYear.
	IncludeInYearStatistics(entityYear, targetYear int) bool
}

// PolicyFor returns the policy for the given track.
func PolicyFor(track Track) TrackPolicy {
	if track == TrackModular {
		return modularPolicy{}
	}
	return legacyPolicy{}
}

// ─────────────────────────────────────────────────────────────────────────────
// Modular track
// ─────────────────────────────────────────────────────────────────────────────

type modularPolicy struct{}

func (modularPolicy) Track() Track { return TrackModular }

func (modularPolicy) MatchProcedure(tpl *Template, activeModuleID, code, name string) *ProcedureMatch {
	module := tpl.FindModule(activeModuleID)
	if module == nil {
		return nil
	}
	for i := range module.Procedures {
		if module.Procedures[i].MatchesName(name) {
			return &ProcedureMatch{Procedure: &module.Procedures[i], Module: module}
		}
	}
	return nil
}

func (modularPolicy) OnMiss() MatchMiss { return MissBlocks }

func (modularPolicy) RequiresActiveModule() bool { return true }

// AcceptsYear: years are not a concept on the modular track, only the
// "unassigned" marker is valid.
func (modularPolicy) AcceptsYear(year int) bool { return year == 0 }

func (modularPolicy) IncludeInYearStatistics(entityYear, targetYear int) bool {
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Legacy track
// ─────────────────────────────────────────────────────────────────────────────

type legacyPolicy struct{}

func (legacyPolicy) Track() Track { return TrackLegacy }

// MatchProcedure searches all modules in template order. When the same name
// appears in several modules the first wins; the original system resolved
// collisions this way and the behavior is preserved deterministically.
func (legacyPolicy) MatchProcedure(tpl *Template, activeModuleID, code, name string) *ProcedureMatch {
	for i := range tpl.Modules {
		module := &tpl.Modules[i]
		for j := range module.Procedures {
			p := &module.Procedures[j]
			if p.MatchesCode(code) || p.MatchesName(name) {
				return &ProcedureMatch{Procedure: p, Module: module}
			}
		}
	}
	return nil
}

func (legacyPolicy) OnMiss() MatchMiss { return MissWarns }

func (legacyPolicy) RequiresActiveModule() bool { return false }

func (legacyPolicy) AcceptsYear(year int) bool { return year >= 0 }

// IncludeInYearStatistics includes exact year matches, and also unassigned
// (year 0) records whenever a concrete target year is requested.
func (legacyPolicy) IncludeInYearStatistics(entityYear, targetYear int) bool {
	if entityYear == targetYear {
		return true
	}
	return entityYear == 0 && targetYear > 0
}
