package lifecycle

import (
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
)

// ApplyEffect mutates record with eff and returns what actually changed.
// Substates contributed by a signed document carry the signed prefix.
func ApplyEffect(record *model.Concurso, eff model.Effect, signed bool) model.AppliedEffect {
	if eff.IsZero() {
		return model.AppliedEffect{}
	}

	applied := model.AppliedEffect{Applied: true, PrevState: record.State}
	if eff.NewRecordState != "" {
		record.State = eff.NewRecordState
		applied.SetState = eff.NewRecordState
	}

	for _, s := range eff.NewRecordSubstates {
		v := s
		if signed {
			v = constant.SignedSubstatePrefix + s
		}
		if record.Substates.Add(v) {
			applied.AddedSubstates = append(applied.AddedSubstates, v)
		}
	}
	return applied
}

// ReverseEffect undoes applied on record. The state is restored only while the record
// still holds the state this effect set; later writers win.
func ReverseEffect(record *model.Concurso, applied model.AppliedEffect) bool {
	if !applied.Applied {
		return false
	}

	changed := false
	if applied.SetState != "" && record.State == applied.SetState {
		record.State = applied.PrevState
		changed = true
	}
	for _, v := range applied.AddedSubstates {
		if record.Substates.Remove(v) {
			changed = true
		}
	}
	return changed
}
