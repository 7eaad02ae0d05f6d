package sqlrepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullTimeScan(t *testing.T) {
	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		src   any
		valid bool
	}{
		{name: "驱动直接返回 time.Time", src: want, valid: true},
		{name: "MySQL 风格文本", src: []byte("2025-01-02 03:04:05"), valid: true},
		{name: "RFC3339 文本", src: "2025-01-02T03:04:05Z", valid: true},
		{name: "Unix 时间戳", src: want.Unix(), valid: true},
		{name: "NULL", src: nil, valid: false},
		{name: "零值日期", src: "0000-00-00 00:00:00", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nt nullTime
			require.NoError(t, nt.Scan(tt.src))
			assert.Equal(t, tt.valid, nt.Valid)
			if tt.valid {
				assert.Equal(t, want, nt.Time)
			}
		})
	}

	var nt nullTime
	assert.Error(t, nt.Scan("not a time"))
	assert.Error(t, nt.Scan(3.14))
}
