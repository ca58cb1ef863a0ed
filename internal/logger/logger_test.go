package logger

import "testing"

func TestInit(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		wantErr bool
	}{
		{level: "debug", format: "text"},
		{level: "info", format: "json"},
		{level: "warn", format: "text"},
		{level: "error", format: "json"},
		{level: "verbose", format: "text", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			err := Init(tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (Log == nil || GetZapLogger() == nil) {
				t.Error("Init() did not set the global logger")
			}
		})
	}
}
