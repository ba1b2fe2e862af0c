package lifecycle

import (
	"slices"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
)

// StateDeleted names the terminal deletion in transition errors. It is never persisted.
const StateDeleted constant.DocumentState = "DELETED"

var transitions = map[constant.DocumentState][]constant.DocumentState{
	constant.DocumentDraft: {
		constant.DocumentSentForSignature,
		constant.DocumentPendingSignature,
		constant.DocumentSigned,
		StateDeleted,
	},
	constant.DocumentSentForSignature: {
		constant.DocumentSentForSignature,
		constant.DocumentPendingSignature,
	},
	constant.DocumentPendingSignature: {
		constant.DocumentPendingSignature,
		constant.DocumentSigned,
		constant.DocumentDraft,
	},
	constant.DocumentSigned: {
		constant.DocumentDraft,
	},
}

func CanTransition(from, to constant.DocumentState) bool {
	return slices.Contains(transitions[from], to)
}

// Transition fails with INVALID_TRANSITION naming both states when the edge does not exist.
func Transition(from, to constant.DocumentState) error {
	if !CanTransition(from, to) {
		return apperror.InvalidTransition(from.String(), to.String())
	}
	return nil
}
