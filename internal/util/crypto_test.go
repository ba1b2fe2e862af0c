package util

import (
	"strings"
	"testing"
)

func TestGenerateNChar(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"Generate 5 characters", 5, false},
		{"Generate 10 characters", 10, false},
		{"Generate negative characters", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateNChar(tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateNChar() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) != tt.n {
				t.Errorf("GenerateNChar() got = %v, want length %v", got, tt.n)
			}
		})
	}
}

func TestGenerateObjectID(t *testing.T) {
	id, err := GenerateObjectID(16)
	if err != nil {
		t.Fatalf("GenerateObjectID() error = %v", err)
	}
	if len(id) != 16 {
		t.Fatalf("GenerateObjectID() length = %d", len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune(objectIDAlphabet, r) {
			t.Fatalf("GenerateObjectID() produced %q outside the alphabet", r)
		}
	}
}
