package network

import (
	"encoding/json"
	"testing"
)

func TestActivationJSONRoundTrip(t *testing.T) {
	for _, activation := range []*Activation{TanH(), ReLU(), Identity()} {
		data, err := json.Marshal(activation)
		if err != nil {
			t.Fatal(err)
		}

		var decoded Activation
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatal(err)
		}

		if decoded.String() != activation.String() {
			t.Errorf("expected activation %v, got %v", activation, &decoded)
		}
		if decoded.f == nil {
			t.Errorf("expected activation %v to have a forward pass",
				activation)
		}
	}
}

func TestActivationUnmarshalUnknown(t *testing.T) {
	var a Activation
	if err := json.Unmarshal([]byte(`"sigmoid"`), &a); err == nil {
		t.Error("expected an error for an unknown activation name")
	}
}
