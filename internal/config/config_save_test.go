package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

/* ------------------------------------------------------------------------- */
/* MOCK IMPLEMENTATIONS FOR TESTING                                          */
/* ------------------------------------------------------------------------- */

// mockMarshaler implements core.Marshaler for testing.
type mockMarshaler struct {
	marshalErr    error
	marshalOutput []byte
}

func (m *mockMarshaler) Marshal(v any) ([]byte, error) {
	if m.marshalErr != nil {
		return nil, m.marshalErr
	}
	if m.marshalOutput != nil {
		return m.marshalOutput, nil
	}
	return []byte("mode: dirs\n"), nil
}

// mockFileOpener implements FileOpener for testing.
type mockFileOpener struct {
	openFileErr error
}

func (m *mockFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	if m.openFileErr != nil {
		return nil, m.openFileErr
	}
	return os.OpenFile(name, flag, perm)
}

// mockFileWriter implements FileWriter for testing.
type mockFileWriter struct {
	writeFileErr error
}

func (m *mockFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	if m.writeFileErr != nil {
		return 0, m.writeFileErr
	}
	return file.Write(data)
}

/* ------------------------------------------------------------------------- */
/* SAVE CONFIG                                                               */
/* ------------------------------------------------------------------------- */

func TestConfigSaver_SaveTo(t *testing.T) {
	tests := []struct {
		name          string
		wantErr       bool
		mockMarshaler *mockMarshaler
		mockOpener    *mockFileOpener
		mockWriter    *mockFileWriter
	}{
		{name: "save defaults"},
		{
			name:          "marshal failure",
			wantErr:       true,
			mockMarshaler: &mockMarshaler{marshalErr: fmt.Errorf("mock marshal failure")},
		},
		{
			name:       "open file failure",
			wantErr:    true,
			mockOpener: &mockFileOpener{openFileErr: fmt.Errorf("permission denied")},
		},
		{
			name:       "write file failure",
			wantErr:    true,
			mockWriter: &mockFileWriter{writeFileErr: fmt.Errorf("simulated write failure")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), DefaultConfigFile)

			// nil means use the production default
			var (
				marshaler *mockMarshaler
				opener    FileOpener
				writer    FileWriter
			)
			if tt.mockOpener != nil {
				opener = tt.mockOpener
			}
			if tt.mockWriter != nil {
				writer = tt.mockWriter
			}
			saver := NewConfigSaver(nil, opener, writer)
			if tt.mockMarshaler != nil {
				marshaler = tt.mockMarshaler
				saver = NewConfigSaver(marshaler, opener, writer)
			}

			err := saver.SaveTo(Default(), configFile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SaveTo() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if _, err := os.Stat(configFile); err != nil {
					t.Errorf("config file was not created: %v", err)
				}
			}
		})
	}
}

func TestConfigSaver_RoundTrip(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), DefaultConfigFile)

	cfg := Default()
	cfg.Mode = "walk"
	cfg.IgnorePatterns = []string{`^docs/`}
	cfg.Stage = BoolPtr(false)

	if err := NewConfigSaver(nil, nil, nil).SaveTo(cfg, configFile); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadConfigFn(configFile)
	if err != nil {
		t.Fatalf("LoadConfigFn() error: %v", err)
	}
	if loaded.Mode != "walk" || loaded.ShouldStage() || len(loaded.IgnorePatterns) != 1 {
		t.Errorf("loaded config = %+v", loaded)
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !containsLine(got, "mode: walk") {
		t.Errorf("saved config missing mode line:\n%s", got)
	}
}

func TestConfigSaver_WriteError(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), DefaultConfigFile)

	saver := NewConfigSaver(nil, nil, &mockFileWriter{writeFileErr: fmt.Errorf("simulated write failure")})
	err := saver.SaveTo(Default(), configFile)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	want := fmt.Sprintf("failed to write config to %q: simulated write failure", configFile)
	if err.Error() != want {
		t.Errorf("unexpected error. got: %q, want: %q", err.Error(), want)
	}
}

func containsLine(s, line string) bool {
	for l := range strings.SplitSeq(s, "\n") {
		if l == line {
			return true
		}
	}
	return false
}
