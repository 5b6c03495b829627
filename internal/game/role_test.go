package game

import (
	"encoding/json"
	"testing"
)

func TestDecodeRoleStateStatefulVariants(t *testing.T) {
	jailed := PlayerIndex(3)
	cases := []struct {
		name string
		raw  string
		want RoleState
	}{
		{
			name: "jailor",
			raw:  `{"type":"jailor","executionsRemaining":2,"jailedTargetRef":3}`,
			want: JailorState{ExecutionsRemaining: 2, JailedTarget: &jailed},
		},
		{
			name: "vigilante",
			raw:  `{"type":"vigilante","bullets":1,"willSuicide":false}`,
			want: VigilanteState{Bullets: 1},
		},
		{
			name: "mayor",
			raw:  `{"type":"mayor","revealed":true}`,
			want: MayorState{Revealed: true},
		},
		{
			name: "marksman",
			raw:  `{"type":"marksman","state":"notLoaded"}`,
			want: MarksmanState{Mode: MarksmanNotLoaded},
		},
		{
			name: "forger",
			raw:  `{"type":"forger","forgesRemaining":2,"forgedRole":"doctor","forgedWill":"w"}`,
			want: ForgerState{ForgesRemaining: 2, ForgedRole: RoleDoctor, ForgedWill: "w"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeRoleState(json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("expected role state, got error %v", err)
			}
			if got.Role() != tc.want.Role() {
				t.Fatalf("expected role %q, got %q", tc.want.Role(), got.Role())
			}
			switch want := tc.want.(type) {
			case JailorState:
				gotState := got.(JailorState)
				if gotState.ExecutionsRemaining != want.ExecutionsRemaining {
					t.Fatalf("expected %d executions, got %d", want.ExecutionsRemaining, gotState.ExecutionsRemaining)
				}
				if gotState.JailedTarget == nil || *gotState.JailedTarget != *want.JailedTarget {
					t.Fatalf("expected jailed target %d, got %v", *want.JailedTarget, gotState.JailedTarget)
				}
			default:
				if got != tc.want {
					t.Fatalf("expected %#v, got %#v", tc.want, got)
				}
			}
		})
	}
}

func TestDecodeRoleStateStatelessRole(t *testing.T) {
	got, err := DecodeRoleState(json.RawMessage(`{"type":"villager"}`))
	if err != nil {
		t.Fatalf("expected role state, got error %v", err)
	}
	if got.Role() != RoleVillager {
		t.Fatalf("expected villager, got %q", got.Role())
	}
	if _, ok := got.(BasicState); !ok {
		t.Fatalf("expected BasicState, got %T", got)
	}
}

func TestDecodeRoleStateUnknownRoleStillDecodes(t *testing.T) {
	got, err := DecodeRoleState(json.RawMessage(`{"type":"innkeeper"}`))
	if err != nil {
		t.Fatalf("expected unknown role to decode, got error %v", err)
	}
	if got.Role() != Role("innkeeper") {
		t.Fatalf("expected role innkeeper, got %q", got.Role())
	}
}

func TestDecodeRoleStateMissingTag(t *testing.T) {
	if _, err := DecodeRoleState(json.RawMessage(`{"bullets":1}`)); err == nil {
		t.Fatalf("expected error for missing type tag, got nil")
	}
}

func TestEncodeRoleStateCarriesTag(t *testing.T) {
	raw, err := EncodeRoleState(VeteranState{AlertsRemaining: 3})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var wire struct {
		Type            Role  `json:"type"`
		AlertsRemaining uint8 `json:"alertsRemaining"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if wire.Type != RoleVeteran {
		t.Fatalf("expected type %q, got %q", RoleVeteran, wire.Type)
	}
	if wire.AlertsRemaining != 3 {
		t.Fatalf("expected 3 alerts, got %d", wire.AlertsRemaining)
	}
}
