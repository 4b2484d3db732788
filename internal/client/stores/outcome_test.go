package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStrings(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"state", Ready.String(), "ready"},
		{"unknown state", State(9).String(), "State(9)"},
		{"outcome", AppliedLocalFallback.String(), "local fallback"},
		{"unknown outcome", OutcomeKind(-1).String(), "OutcomeKind(-1)"},
		{"migration", MigrationRemoteNotEmpty.String(), "remote not empty"},
		{"migration failed", MigrationFailed.String(), "failed"},
		{"unknown migration", MigrationKind(42).String(), "MigrationKind(42)"},
		{"negative migration", MigrationKind(-1).String(), "MigrationKind(-1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
