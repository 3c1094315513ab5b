package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

func TestComputeDuration(t *testing.T) {
	entry := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		exit    time.Time
		opts    Options
		want    string
		wantErr error
	}{
		{
			name: "exactly 90 minutes is 1.50 hours, never 2.00",
			exit: entry.Add(90 * time.Minute),
			want: "1.5",
		},
		{
			name: "zero duration",
			exit: entry,
			want: "0",
		},
		{
			name: "rounds half-up at second decimal",
			exit: entry.Add(59*time.Minute + 51*time.Second), // 0.9975h
			want: "1",
		},
		{
			name: "just under next fraction stays down",
			exit: entry.Add(1*time.Hour + 29*time.Minute + 59*time.Second), // 1.4997h
			want: "1.5",
		},
		{
			name: "full day",
			exit: entry.Add(24 * time.Hour),
			want: "24",
		},
		{
			name:    "exit before entry rejected by default",
			exit:    entry.Add(-10 * time.Minute),
			wantErr: domain.ErrInvalidDuration,
		},
		{
			name: "exit before entry clamps to zero hours when policy allows",
			exit: entry.Add(-30 * time.Minute),
			opts: Options{AllowNegativeDuration: true},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDuration(entry, tt.exit, tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(mustDecimal(t, tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}
