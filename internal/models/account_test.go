package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Toggle(t *testing.T) {
	tests := []struct {
		name string
		in   Status
		want Status
	}{
		{name: "online to offline", in: StatusOnline, want: StatusOffline},
		{name: "offline to online", in: StatusOffline, want: StatusOnline},
		{name: "unknown stays", in: Status("AWAY"), want: Status("AWAY")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Toggle())
		})
	}
}

func TestStatus_ToggleTwiceIsIdentity(t *testing.T) {
	for _, s := range []Status{StatusOnline, StatusOffline} {
		assert.Equal(t, s, s.Toggle().Toggle())
	}
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusOnline.Valid())
	assert.True(t, StatusOffline.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("online").Valid())
}
