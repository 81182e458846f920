package config

import (
	"testing"

	"github.com/jessevdk/go-flags"
)

func TestResolveNetwork(t *testing.T) {
	t.Run("default is mainnet", func(t *testing.T) {
		networkFlags := &NetworkFlags{}
		parser := flags.NewParser(networkFlags, flags.None)
		if err := networkFlags.ResolveNetwork(parser); err != nil {
			t.Fatalf("ResolveNetwork: %v", err)
		}
		if networkFlags.NetParams() != &MainnetParams {
			t.Errorf("active params: got %s, want mainnet", networkFlags.NetParams().Name)
		}
	})

	t.Run("single selection", func(t *testing.T) {
		networkFlags := &NetworkFlags{Simnet: true}
		parser := flags.NewParser(networkFlags, flags.None)
		if err := networkFlags.ResolveNetwork(parser); err != nil {
			t.Fatalf("ResolveNetwork: %v", err)
		}
		if networkFlags.NetParams() != &SimnetParams {
			t.Errorf("active params: got %s, want simnet", networkFlags.NetParams().Name)
		}
	})

	t.Run("conflicting selections", func(t *testing.T) {
		networkFlags := &NetworkFlags{Testnet: true, Devnet: true}
		parser := flags.NewParser(networkFlags, flags.None)
		if err := networkFlags.ResolveNetwork(parser); err == nil {
			t.Fatalf("expected an error for multiple selected networks")
		}
	})
}

func TestParseAndSetDebugLevels(t *testing.T) {
	tests := []struct {
		name       string
		debugLevel string
		wantErr    bool
	}{
		{"plain level", "debug", false},
		{"invalid plain level", "loud", true},
		{"missing level in pair", "CONN", true},
		{"malformed pair", "CONN=debug=trace", true},
		{"unknown subsystem", "NOPE=debug", true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := parseAndSetDebugLevels(test.debugLevel)
			if (err != nil) != test.wantErr {
				t.Errorf("parseAndSetDebugLevels(%q) error = %v, wantErr %t",
					test.debugLevel, err, test.wantErr)
			}
		})
	}
}
