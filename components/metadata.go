package components

// String returns the display name for a BehaviorState.
func (s BehaviorState) String() string {
	names := BehaviorStateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// BehaviorStateNames returns the display names for all behavior states.
// The order matches the BehaviorState constants.
func BehaviorStateNames() []string {
	return []string{"wandering", "seeking_food"}
}

// Icon returns a short marker drawn above creatures when state icons are enabled.
func (s BehaviorState) Icon() string {
	switch s {
	case StateSeekingFood:
		return "!"
	default:
		return "~"
	}
}
