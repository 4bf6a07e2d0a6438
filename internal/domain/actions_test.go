package domain

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected ActionType
	}{
		{"MOVE", ActionMove},
		{"move", ActionMove},
		{"Move", ActionMove},
		{"ATTACK", ActionAttack},
		{"ability", ActionAbility},
		{"END_TURN", ActionEndTurn},
		{"unlock_skill", ActionUnlockSkill},
		{"WAIT", ActionUnknown},
		{"", ActionUnknown},
	}

	for _, tt := range tests {
		result := ParseAction(tt.input)
		if result != tt.expected {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestActionType_String(t *testing.T) {
	tests := []struct {
		action   ActionType
		expected string
	}{
		{ActionMove, "MOVE"},
		{ActionAttack, "ATTACK"},
		{ActionUseItem, "USE_ITEM"},
		{ActionUnknown, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.expected {
			t.Errorf("ActionType(%d).String() = %q, want %q", tt.action, got, tt.expected)
		}
	}
}

func TestActionType_ChangesState(t *testing.T) {
	if ActionState.ChangesState() || ActionEndTurn.ChangesState() {
		t.Error("STATE and END_TURN must not count as state-changing actions")
	}
	if !ActionMove.ChangesState() || !ActionAbility.ChangesState() {
		t.Error("MOVE and ABILITY must count as state-changing actions")
	}
}
