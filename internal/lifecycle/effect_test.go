package lifecycle

import (
	"errors"
	"slices"
	"testing"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
)

func TestApplyEffect(t *testing.T) {
	record := &model.Concurso{State: "INSCRIPCION", Substates: model.NewSubstates("publicado")}

	applied := ApplyEffect(record, model.Effect{
		NewRecordState:     "CERRADO",
		NewRecordSubstates: model.NewSubstates("publicado", "acta"),
	}, true)

	if record.State != "CERRADO" {
		t.Errorf("state = %q", record.State)
	}
	if !slices.Equal(record.Substates, model.Substates{"publicado", "firmado:publicado", "firmado:acta"}) {
		t.Errorf("substates = %v", record.Substates)
	}
	want := model.AppliedEffect{Applied: true, PrevState: "INSCRIPCION", SetState: "CERRADO", AddedSubstates: []string{"firmado:publicado", "firmado:acta"}}
	if applied.PrevState != want.PrevState || applied.SetState != want.SetState || !slices.Equal(applied.AddedSubstates, want.AddedSubstates) {
		t.Errorf("applied = %+v, want %+v", applied, want)
	}
}

func TestApplyZeroEffect(t *testing.T) {
	record := &model.Concurso{State: "INSCRIPCION"}
	if applied := ApplyEffect(record, model.Effect{}, false); applied.Applied {
		t.Errorf("zero effect reported as applied: %+v", applied)
	}
	if record.State != "INSCRIPCION" {
		t.Errorf("state = %q", record.State)
	}
}

func TestApplyEffectSkipsExistingSubstates(t *testing.T) {
	record := &model.Concurso{Substates: model.NewSubstates("tribunal")}
	applied := ApplyEffect(record, model.Effect{NewRecordSubstates: model.NewSubstates("tribunal")}, false)

	if len(applied.AddedSubstates) != 0 {
		t.Errorf("added = %v, want none", applied.AddedSubstates)
	}
	// reversing must not remove a value another document contributed
	ReverseEffect(record, applied)
	if !record.Substates.Contains("tribunal") {
		t.Errorf("pre-existing substate removed")
	}
}

func TestReverseEffect(t *testing.T) {
	tests := []struct {
		name      string
		state     string
		wantState string
	}{
		{"state still set by this effect", "CERRADO", "INSCRIPCION"},
		{"state overwritten later", "IMPUGNADO", "IMPUGNADO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &model.Concurso{State: tt.state, Substates: model.NewSubstates("otro", "firmado:acta")}
			ReverseEffect(record, model.AppliedEffect{
				Applied:        true,
				PrevState:      "INSCRIPCION",
				SetState:       "CERRADO",
				AddedSubstates: []string{"firmado:acta"},
			})

			if record.State != tt.wantState {
				t.Errorf("state = %q, want %q", record.State, tt.wantState)
			}
			if !slices.Equal(record.Substates, model.Substates{"otro"}) {
				t.Errorf("substates = %v", record.Substates)
			}
		})
	}
}

func TestReverseUnappliedEffect(t *testing.T) {
	record := &model.Concurso{State: "CERRADO"}
	if ReverseEffect(record, model.AppliedEffect{SetState: "CERRADO", PrevState: "X"}) {
		t.Error("unapplied effect reported a change")
	}
	if record.State != "CERRADO" {
		t.Errorf("state = %q", record.State)
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to constant.DocumentState
		ok       bool
	}{
		{constant.DocumentDraft, constant.DocumentSentForSignature, true},
		{constant.DocumentDraft, constant.DocumentPendingSignature, true},
		{constant.DocumentDraft, constant.DocumentSigned, true},
		{constant.DocumentDraft, StateDeleted, true},
		{constant.DocumentSentForSignature, constant.DocumentSentForSignature, true},
		{constant.DocumentSentForSignature, constant.DocumentPendingSignature, true},
		{constant.DocumentSentForSignature, constant.DocumentDraft, false},
		{constant.DocumentPendingSignature, constant.DocumentSigned, true},
		{constant.DocumentPendingSignature, constant.DocumentDraft, true},
		{constant.DocumentPendingSignature, StateDeleted, false},
		{constant.DocumentSigned, constant.DocumentDraft, true},
		{constant.DocumentSigned, constant.DocumentPendingSignature, false},
		{constant.DocumentSigned, StateDeleted, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, apperror.ErrInvalidTransition) {
				t.Errorf("err = %v, want INVALID_TRANSITION", err)
			}
		})
	}
}
