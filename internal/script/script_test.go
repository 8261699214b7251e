package script

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/maquette/internal/animation"
	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/mobject"
	"github.com/ivlev/maquette/internal/scene"
	"github.com/ivlev/maquette/internal/timeline"
)

func stateAt(t *testing.T, sc *scene.Scene, id mobject.ID, at float64) mobject.State {
	t.Helper()
	frame, err := sc.RenderFrame(at)
	require.NoError(t, err)
	for _, it := range frame.Items {
		if it.ID == id {
			return it.Mobject.State
		}
	}
	t.Fatalf("%s not in frame", id)
	return mobject.State{}
}

func TestBasicDemo(t *testing.T) {
	s, err := Demo("basic")
	require.NoError(t, err)

	sc, names, err := Build(s, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sc.Len())
	assert.InDelta(t, 5.7, sc.Duration(), 1e-9)

	dot := names["dot"]
	st := stateAt(t, sc, dot, 1.45)
	assert.InDelta(t, 0.5, st.Opacity, 1e-9)
	assert.Equal(t, geom.V(-200, 0), st.Position)

	st = stateAt(t, sc, dot, 10)
	assert.Equal(t, geom.V(0, 0), st.Position)
	assert.Equal(t, 1.0, stateAt(t, sc, names["axes"], 10).Opacity)
}

func TestPlotDemo(t *testing.T) {
	s, err := Demo("plot")
	require.NoError(t, err)

	sc, names, err := Build(s, nil)
	require.NoError(t, err)
	assert.Len(t, names, 5)

	groups, err := sc.Get(names["groups"])
	require.NoError(t, err)
	scatter := groups.Shape.(mobject.Scatter)
	assert.Len(t, scatter.Points, 36)
	assert.Len(t, scatter.Colors, 36)
	assert.Equal(t, geom.V(-320, 0), groups.State.Position, "placed on its axes")

	plane, err := sc.Get(names["plane"])
	require.NoError(t, err)
	wave, err := sc.Get(names["wave"])
	require.NoError(t, err)
	assert.Equal(t, plane.State.Position, wave.State.Position, "curve placed on its axes")

	_, err = Demo("nope")
	assert.Error(t, err)
	assert.Equal(t, []string{"basic", "plot"}, DemoNames())
}

func TestCurvePointsOnAxes(t *testing.T) {
	s := &Script{Mobjects: []MobjectSpec{
		{Name: "grid", Kind: "axes2d", At: vec(100, 50), Unit: 10},
		{Name: "path", Kind: "curve", On: "grid", Points: []geom.Vec2{{X: 1, Y: 1}, {X: 2}}},
		{Name: "free", Kind: "curve", Points: []geom.Vec2{{X: 1, Y: 1}, {X: 2}}},
	}}
	sc, names, err := Build(s, nil)
	require.NoError(t, err)

	path, err := sc.Get(names["path"])
	require.NoError(t, err)
	assert.Equal(t, geom.V(100, 50), path.State.Position)
	assert.Equal(t, []geom.Vec2{{X: 10, Y: 10}, {X: 20}}, path.Shape.(mobject.Curve).Points)

	free, err := sc.Get(names["free"])
	require.NoError(t, err)
	assert.Equal(t, geom.Vec2{}, free.State.Position)
	assert.Equal(t, []geom.Vec2{{X: 1, Y: 1}, {X: 2}}, free.Shape.(mobject.Curve).Points)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s, err := Demo("basic")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "basic.yaml")
	require.NoError(t, WriteScript(s, path))

	got, err := ReadScript(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestParse(t *testing.T) {
	doc := `
version: "1.0"
background: "202020"
mobjects:
  - name: box
    kind: rectangle
    width: 40
    height: 20
    fill: "#ff0000"
steps:
  - play:
      - animation: shift
        target: box
        by: {x: 10, y: 0}
        duration: 2
        easing: linear
  - wait: 1
`
	s, err := Parse([]byte(doc))
	require.NoError(t, err)

	sc, names, err := Build(s, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2, sc.Duration(), 1e-9)
	assert.Equal(t, geom.V(5, 0), stateAt(t, sc, names["box"], 1).Position)

	box, err := sc.Get(names["box"])
	require.NoError(t, err)
	assert.Equal(t, 1.0, box.State.FillOpacity)

	_, err = Parse([]byte("version: 1\nmobjcts: []\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestBuildErrors(t *testing.T) {
	circle := MobjectSpec{Name: "c", Kind: "circle"}
	play := func(a AnimSpec) []StepSpec { return []StepSpec{{Play: []AnimSpec{a}}} }

	tests := []struct {
		name   string
		script Script
		target error
		text   string
	}{
		{
			name:   "unknown target",
			script: Script{Mobjects: []MobjectSpec{circle}, Steps: play(AnimSpec{Animation: "fade_in", Target: "ghost"})},
			target: mobject.ErrNotFound,
		},
		{
			name:   "zero duration",
			script: Script{Mobjects: []MobjectSpec{circle}, Steps: play(AnimSpec{Animation: "fade_in", Target: "c", Duration: seconds(0)})},
			target: animation.ErrInvalidDuration,
		},
		{
			name:   "negative wait",
			script: Script{Mobjects: []MobjectSpec{circle}, Steps: []StepSpec{{Wait: seconds(-1)}}},
			target: timeline.ErrInvalidWait,
		},
		{
			name:   "duplicate name",
			script: Script{Mobjects: []MobjectSpec{circle, circle}},
			text:   "duplicate",
		},
		{
			name:   "unknown kind",
			script: Script{Mobjects: []MobjectSpec{{Name: "x", Kind: "hexagon"}}},
			text:   "unknown kind",
		},
		{
			name:   "image without loader",
			script: Script{Mobjects: []MobjectSpec{{Name: "x", Kind: "image", Source: "page.pdf"}}},
			text:   "no loader",
		},
		{
			name:   "on non-axes",
			script: Script{Mobjects: []MobjectSpec{circle, {Name: "s", Kind: "scatter", On: "c", Points: []geom.Vec2{{}}}}},
			text:   "not axes",
		},
		{
			name:   "empty step",
			script: Script{Steps: []StepSpec{{}}},
			text:   "empty step",
		},
		{
			name:   "bad easing",
			script: Script{Mobjects: []MobjectSpec{circle}, Steps: play(AnimSpec{Animation: "create", Target: "c", Easing: "wobbly"})},
			text:   "unknown easing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(&tt.script, nil)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.text != "" {
				assert.Contains(t, err.Error(), tt.text)
			}
		})
	}
}

type fakeLoader struct {
	img   image.Image
	calls []int
}

func (f *fakeLoader) Load(path string, page int) (image.Image, error) {
	f.calls = append(f.calls, page)
	return f.img, nil
}

func TestImageCrop(t *testing.T) {
	page := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range page.Pix {
		page.Pix[i] = 255
	}
	for y := 60; y < 120; y++ {
		for x := 40; x < 160; x++ {
			page.SetGray(x, y, color.Gray{})
		}
	}
	loader := &fakeLoader{img: page}

	s := &Script{Mobjects: []MobjectSpec{
		{Name: "full", Kind: "image", Source: "doc.pdf", Page: 2, Width: 100},
		{Name: "ink", Kind: "image", Source: "doc.pdf", Page: 2, Crop: true},
	}}
	sc, names, err := Build(s, loader)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, loader.calls, "pages are 1-based in scripts")

	full, err := sc.Get(names["full"])
	require.NoError(t, err)
	assert.Equal(t, 100.0, full.Shape.(mobject.Image).Width)

	ink, err := sc.Get(names["ink"])
	require.NoError(t, err)
	w := ink.Shape.(mobject.Image).Width
	assert.Less(t, w, 200.0)
	assert.GreaterOrEqual(t, w, 120.0)
}

func TestScriptPaths(t *testing.T) {
	dir := t.TempDir()
	p := GenerateScriptPath(dir)
	assert.True(t, strings.HasPrefix(filepath.Base(p), "scene_"))
	assert.Equal(t, ".yaml", filepath.Ext(p))

	older := filepath.Join(dir, "a.yaml")
	newer := filepath.Join(dir, "b.yml")
	require.NoError(t, os.WriteFile(older, []byte("version: 1"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("version: 1"), 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	latest, err := FindLatestScript(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, latest)
}
