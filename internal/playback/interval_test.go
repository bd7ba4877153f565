package playback

import (
	"errors"
	"testing"
	"time"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "0.2", want: 200 * time.Millisecond},
		{in: " 1.5 ", want: 1500 * time.Millisecond},
		{in: "3", want: 3 * time.Second},
		{in: "1e-3", want: time.Millisecond},
		{in: "0", wantErr: true},
		{in: "-0.5", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "1e-12", wantErr: true},
		{in: "1e300", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInterval) {
					t.Fatalf("expected ErrInvalidInterval, got %v (%v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIntervalSettingKeepsLastValidValue(t *testing.T) {
	setting := NewIntervalSetting(0)
	if got := setting.Get(); got != DefaultInterval {
		t.Fatalf("expected default %v, got %v", DefaultInterval, got)
	}

	if err := setting.Set("0.5"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := setting.Set("fast"); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if err := setting.Set("-1"); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if got := setting.Get(); got != 500*time.Millisecond {
		t.Fatalf("expected 500ms to be retained, got %v", got)
	}

	if err := setting.SetSeconds(2); err != nil {
		t.Fatalf("set seconds: %v", err)
	}
	if err := setting.SetSeconds(0); err == nil {
		t.Fatalf("expected error for zero seconds")
	}
	if got := setting.Get(); got != 2*time.Second {
		t.Fatalf("expected 2s, got %v", got)
	}
}
