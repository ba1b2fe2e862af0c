package env

import (
	"testing"
	"time"
)

func TestGetters(t *testing.T) {
	t.Setenv("ACTA_TEST_STRING", "value")
	t.Setenv("ACTA_TEST_INT", "42")
	t.Setenv("ACTA_TEST_BAD_INT", "forty")
	t.Setenv("ACTA_TEST_BOOL", "true")
	t.Setenv("ACTA_TEST_DURATION", "90s")

	if got := GetString("ACTA_TEST_STRING", "x"); got != "value" {
		t.Errorf("GetString = %q", got)
	}
	if got := GetString("ACTA_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetString fallback = %q", got)
	}
	if got := GetInt("ACTA_TEST_INT", 1); got != 42 {
		t.Errorf("GetInt = %d", got)
	}
	if got := GetInt("ACTA_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("GetInt fallback on parse error = %d", got)
	}
	if got := GetBool("ACTA_TEST_BOOL", false); !got {
		t.Errorf("GetBool = %v", got)
	}
	if got := GetDuration("ACTA_TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("GetDuration = %v", got)
	}
}
