package pref

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	require.Equal(t, Default(), p)
	require.Equal(t, DefaultTimelineSplitter, p.TimelineSplitter())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := Path(filepath.Join(t.TempDir(), "nested"))
	p := Default()
	p.General.Layout = "animation"
	p.General.UIScale = 2
	p.Timeline.Position = TimelineLeft
	p.Timeline.Visible = false
	p.SetTimelineSplitter(60)
	require.NoError(t, p.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, p, got)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "timeline_splitter: 60")
	require.Contains(t, string(b), "position: left")
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("timeline:\n  position: right\n  visible: true\n"), 0o644))
	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, TimelineRight, p.Timeline.Position)
	require.Equal(t, 1, p.General.UIScale)
	require.True(t, p.General.ShowMenuBar)
	require.Equal(t, DefaultTimelineSplitter, p.TimelineSplitter())
}

func TestLoadNormalizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	src := strings.Join([]string{
		"general:",
		"  ui_scale: 9",
		"timeline:",
		"  position: diagonal",
		"layout:",
		"  main_window:",
		"    timeline_splitter: 140",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, maxUIScale, p.General.UIScale)
	require.Equal(t, TimelineBottom, p.Timeline.Position)
	require.Equal(t, 99, p.TimelineSplitter())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("general: [unclosed"), 0o644))
	p, err := Load(path)
	require.Error(t, err)
	require.Equal(t, Default(), p)
}

func TestSetTimelineSplitterClamps(t *testing.T) {
	p := &Preferences{}
	p.SetTimelineSplitter(0)
	require.Equal(t, 1, p.TimelineSplitter())
	p.SetTimelineSplitter(100)
	require.Equal(t, 99, p.TimelineSplitter())
}

func TestDefaultDirOverride(t *testing.T) {
	t.Setenv(DirEnv, "/tmp/pxed-test")
	dir, err := DefaultDir()
	require.NoError(t, err)
	require.Equal(t, "/tmp/pxed-test", dir)
}
