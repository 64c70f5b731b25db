package memory

import (
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

// stubMemoryLimit records calls instead of changing the runtime limit.
func stubMemoryLimit(t *testing.T, current int64) *[]int64 {
	t.Helper()
	var set []int64
	orig := setMemoryLimit
	setMemoryLimit = func(limit int64) int64 {
		if limit < 0 {
			return current
		}
		set = append(set, limit)
		prev := current
		current = limit
		return prev
	}
	t.Cleanup(func() { setMemoryLimit = orig })
	return &set
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantSource string
		wantLimit  int64
		wantRatio  float64
		wantSet    bool
	}{
		{
			name:       "nothing set",
			env:        map[string]string{},
			wantSource: "none",
		},
		{
			name:       "GOMEMLIMIT wins",
			env:        map[string]string{"GOMEMLIMIT": "512MiB", "MEMORY_LIMIT": "1073741824"},
			wantSource: "GOMEMLIMIT",
			wantLimit:  512 << 20,
		},
		{
			name:       "MEMORY_LIMIT default ratio",
			env:        map[string]string{"MEMORY_LIMIT": "1000000"},
			wantSource: "MEMORY_LIMIT",
			wantLimit:  850000,
			wantRatio:  DefaultMemoryRatio,
			wantSet:    true,
		},
		{
			name:       "MEMORY_LIMIT custom ratio",
			env:        map[string]string{"MEMORY_LIMIT": "1000000", "MEMORY_RATIO": "0.5"},
			wantSource: "MEMORY_LIMIT",
			wantLimit:  500000,
			wantRatio:  0.5,
			wantSet:    true,
		},
		{
			name:       "ratio out of range falls back",
			env:        map[string]string{"MEMORY_LIMIT": "1000000", "MEMORY_RATIO": "1.5"},
			wantSource: "MEMORY_LIMIT",
			wantLimit:  850000,
			wantRatio:  DefaultMemoryRatio,
			wantSet:    true,
		},
		{
			name:       "invalid MEMORY_LIMIT",
			env:        map[string]string{"MEMORY_LIMIT": "lots"},
			wantSource: "none",
		},
		{
			name:       "negative MEMORY_LIMIT",
			env:        map[string]string{"MEMORY_LIMIT": "-1"},
			wantSource: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := stubMemoryLimit(t, 512<<20)

			got := Configure(envMap(tt.env))
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.GoMemLimit != tt.wantLimit {
				t.Errorf("GoMemLimit = %d, want %d", got.GoMemLimit, tt.wantLimit)
			}
			if got.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %v, want %v", got.Ratio, tt.wantRatio)
			}
			if got.Configured() != (tt.wantLimit > 0) {
				t.Errorf("Configured() = %v", got.Configured())
			}
			if tt.wantSet && (len(*set) != 1 || (*set)[0] != tt.wantLimit) {
				t.Errorf("runtime limit calls = %v, want [%d]", *set, tt.wantLimit)
			}
			if !tt.wantSet && len(*set) != 0 {
				t.Errorf("runtime limit changed unexpectedly: %v", *set)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
