package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelClassification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantVal bool
		wantNF  bool
		wantCfl bool
	}{
		{"validation", Validationf("content is empty"), true, false, false},
		{"not found", NotFoundf("feature %s", "abc"), false, true, false},
		{"conflict", Conflictf("already approved"), false, false, true},
		{"operation failed", OperationFailed("insert transcript"), false, false, false},
		{"plain error", errors.New("boom"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.wantVal {
				t.Errorf("IsValidation = %v, want %v", got, tt.wantVal)
			}
			if got := IsNotFound(tt.err); got != tt.wantNF {
				t.Errorf("IsNotFound = %v, want %v", got, tt.wantNF)
			}
			if got := IsConflict(tt.err); got != tt.wantCfl {
				t.Errorf("IsConflict = %v, want %v", got, tt.wantCfl)
			}
		})
	}
}

func TestWrappingSurvivesLayers(t *testing.T) {
	inner := NotFoundf("transcript %s", "t-1")
	outer := fmt.Errorf("get transcript detail: %w", inner)

	if !IsNotFound(outer) {
		t.Error("IsNotFound should see through fmt.Errorf wrapping")
	}
	if !errors.Is(outer, ErrNotFound) {
		t.Error("errors.Is(outer, ErrNotFound) = false")
	}
}

func TestMessageCarriesDetail(t *testing.T) {
	err := Conflictf("feature %q is %s", "dark mode", "archived")
	want := `conflict: feature "dark mode" is archived`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
