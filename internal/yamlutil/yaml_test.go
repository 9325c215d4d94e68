package yamlutil_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/inanna-press/inanna/internal/yamlutil"
)

type testConfig struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("addr: \":8080\"\ndata_dir: /srv/inanna"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Addr != ":8080" {
					t.Errorf("Addr = %q, want %q", cfg.Addr, ":8080")
				}
				if cfg.DataDir != "/srv/inanna" {
					t.Errorf("DataDir = %q, want %q", cfg.DataDir, "/srv/inanna")
				}
			},
		},
		{
			name:    "empty data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrEmptyData,
		},
		{
			name:    "nil destination",
			data:    []byte("addr: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "oversized input",
			data:    bytes.Repeat([]byte("a"), 1<<20+1),
			dest:    &testConfig{},
			wantErr: yamlutil.ErrInputTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UnmarshalStrict() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalStrict() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

func TestUnmarshalStrictRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	err := yamlutil.UnmarshalStrict([]byte("addr: x\ncampo_desconocido: y"), &cfg)
	if err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	in := testConfig{Addr: ":9090", DataDir: "/tmp/datos"}
	data, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), ":9090") {
		t.Errorf("Marshal() = %q, missing addr", data)
	}

	var out testConfig
	if err := yamlutil.UnmarshalStrict(data, &out); err != nil {
		t.Fatalf("UnmarshalStrict() error: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
