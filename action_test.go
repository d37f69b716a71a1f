package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/hdrpack/internal/archive"
	"github.com/ossyrian/hdrpack/internal/config"
)

func TestResolveAction(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		args    []string
		want    action
		wantErr error
	}{
		{
			name:    "nothing requested",
			wantErr: errNoAction,
		},
		{
			name:    "output without inputs",
			cfg:     config.Config{Output: "out.dat"},
			wantErr: errNoInputs,
		},
		{
			name:    "inputs without output",
			args:    []string{"a.txt"},
			wantErr: errNoOutput,
		},
		{
			name:    "both modes from config",
			cfg:     config.Config{Unpack: "in.dat", Output: "out.dat"},
			wantErr: errBothModes,
		},
		{
			name: "unpack",
			cfg:  config.Config{Unpack: "in.dat"},
			want: action{kind: actionUnpack, archive: "in.dat"},
		},
		{
			name: "unpack ignores inputs with a warning",
			cfg:  config.Config{Unpack: "in.dat"},
			args: []string{"a.txt"},
			want: action{
				kind:     actionUnpack,
				archive:  "in.dat",
				warnings: []string{"do not specify input files when unpacking"},
			},
		},
		{
			name: "pack",
			cfg:  config.Config{Output: "out.dat"},
			args: []string{"a.txt", "dir/b.txt"},
			want: action{kind: actionPack, archive: "out.dat", inputs: []string{"a.txt", "dir/b.txt"}},
		},
		{
			name: "pack drops duplicate inputs",
			cfg:  config.Config{Output: "out.dat"},
			args: []string{"b.txt", "a.txt", "b.txt", "a.txt", "c.txt"},
			want: action{kind: actionPack, archive: "out.dat", inputs: []string{"b.txt", "a.txt", "c.txt"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveAction(&tt.cfg, tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: a.txt", archive.ErrInput), "cannot pack input file"},
		{fmt.Errorf("%w: out.dat", archive.ErrOutputConflict), "output archive already exists"},
		{&archive.PartialOutputError{Path: "out.dat", Err: archive.ErrTruncatedInput}, "input file changed while packing"},
		{fmt.Errorf("x: %w", archive.ErrTruncatedArchive), "archive is truncated"},
		{fmt.Errorf("x: %w", archive.ErrInvalidHeader), "archive header is invalid"},
		{archive.ErrUnreadableArchive, "archive cannot be read"},
		{errNoAction, "no action requested"},
		{errors.New("boom"), "operation failed"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, summarize(tt.err), "summarize(%v)", tt.err)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	report(logger, fmt.Errorf("%w: out.dat", archive.ErrOutputConflict))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `msg="output archive already exists"`)
	assert.Contains(t, out, "out.dat")
}
