package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantType CommandType
		wantArgs []string
	}{
		{name: "empty", message: "   ", wantType: CommandUnknown},
		{name: "goat with slash", message: "/goat 12m 30 Boer 500 meat", wantType: CommandGoat, wantArgs: []string{"12m", "30", "Boer", "500", "meat"}},
		{name: "case folded head", message: "SUMMARY", wantType: CommandSummary},
		{name: "alias", message: "sale 300 two kids", wantType: CommandIncome, wantArgs: []string{"300", "two", "kids"}},
		{name: "delete alias", message: "/delete abc", wantType: CommandRemove, wantArgs: []string{"abc"}},
		{name: "unknown", message: "/eggs 12", wantType: CommandUnknown, wantArgs: []string{"12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ParseCommand(tt.message)
			assert.Equal(t, tt.wantType, cmd.Type)
			assert.Equal(t, tt.wantArgs, cmd.Args)
			assert.Equal(t, tt.message, cmd.Raw)
		})
	}
}
