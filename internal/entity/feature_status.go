package entity

import "fmt"

// FeatureStatus is the lifecycle state of a feature row.
//
// Suggestions enter as pending. Approving a suggestion makes it active,
// ignoring it makes it archived. User-authored features are created active.
// Archived is terminal.
type FeatureStatus string

const (
	FeatureStatusPending  FeatureStatus = "pending"
	FeatureStatusActive   FeatureStatus = "active"
	FeatureStatusArchived FeatureStatus = "archived"
)

func (s FeatureStatus) IsValid() bool {
	switch s {
	case FeatureStatusPending, FeatureStatusActive, FeatureStatusArchived:
		return true
	}
	return false
}

func (s FeatureStatus) String() string {
	return string(s)
}

// ValidTransitions returns the states reachable from s.
func (s FeatureStatus) ValidTransitions() []FeatureStatus {
	switch s {
	case FeatureStatusPending:
		return []FeatureStatus{FeatureStatusActive, FeatureStatusArchived}
	case FeatureStatusActive:
		return []FeatureStatus{FeatureStatusArchived}
	default:
		return nil
	}
}

func (s FeatureStatus) CanTransitionTo(target FeatureStatus) bool {
	for _, next := range s.ValidTransitions() {
		if next == target {
			return true
		}
	}
	return false
}

func ParseFeatureStatus(raw string) (FeatureStatus, error) {
	s := FeatureStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown feature status %q", raw)
	}
	return s, nil
}
