package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIntent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Intent
		wantErr bool
	}{
		{
			name: "join",
			raw:  `{"type":"join","groupName":"CS101"}`,
			want: Intent{Type: IntentJoin, GroupName: "CS101"},
		},
		{
			name: "send",
			raw:  `{"type":"send","text":"hi"}`,
			want: Intent{Type: IntentSend, Text: "hi"},
		},
		{
			name: "send with spoofed group still decodes",
			raw:  `{"type":"send","text":"hi","groupName":"OTHER"}`,
			want: Intent{Type: IntentSend, Text: "hi", GroupName: "OTHER"},
		},
		{
			name: "typing",
			raw:  `{"type":"typing"}`,
			want: Intent{Type: IntentTyping},
		},
		{
			name: "delete",
			raw:  `{"type":"delete","messageId":"abc"}`,
			want: Intent{Type: IntentDelete, MessageID: "abc"},
		},
		{
			name:    "not json",
			raw:     `nope`,
			wantErr: true,
		},
		{
			name:    "missing type",
			raw:     `{"text":"hi"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeIntent([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
