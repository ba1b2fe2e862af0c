package pdfstamp

import "testing"

func TestSignaturePosition(t *testing.T) {
	tests := []struct {
		ordinal int
		x, y    float64
	}{
		{0, 20, 20},
		{1, 20, 32},
		{9, 20, 128},
		{10, 220, 20},
		{23, 420, 56},
	}

	for _, tt := range tests {
		x, y := SignaturePosition(tt.ordinal)
		if x != tt.x || y != tt.y {
			t.Errorf("SignaturePosition(%d) = (%v, %v), want (%v, %v)", tt.ordinal, x, y, tt.x, tt.y)
		}
	}
}

func TestSignatureLabel(t *testing.T) {
	ts := "01/02/2024 10:00"

	withRole := SignatureLabel(Signer{Surname: "Gomez", Name: "Ana", ID: "u-1", Role: "PRESIDENT"}, ts)
	if withRole != "Signed by: Gomez, Ana (Role: PRESIDENT, ID: u-1) - 01/02/2024 10:00" {
		t.Errorf("label with role = %q", withRole)
	}

	noRole := SignatureLabel(Signer{Surname: "Gomez", Name: "Ana", ID: "u-1"}, ts)
	if noRole != "Signed by: Gomez, Ana (ID: u-1) - 01/02/2024 10:00" {
		t.Errorf("label without role = %q", noRole)
	}

	if !signed(withRole, Signer{Surname: "Gomez", ID: "u-1"}) {
		t.Errorf("label not recognised as signed")
	}
	if signed(withRole, Signer{Surname: "Gomez", ID: "u-2"}) {
		t.Errorf("label matched the wrong id")
	}
}
