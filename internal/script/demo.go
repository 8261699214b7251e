package script

import (
	"fmt"
	"sort"

	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/mobject"
)

func seconds(v float64) *float64 { return &v }

func vec(x, y float64) *geom.Vec2 { return &geom.Vec2{X: x, Y: y} }

// demos are built-in scenes selectable by name.
var demos = map[string]func() *Script{
	"basic": basicDemo,
	"plot":  plotDemo,
}

// DemoNames lists the built-in scenes in sorted order.
func DemoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Demo returns a fresh copy of the named built-in scene.
func Demo(name string) (*Script, error) {
	build, ok := demos[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo %q (available: %v)", name, DemoNames())
	}
	return build(), nil
}

// basicDemo fades in axes and a circle, then moves the circle through three
// eased hops. Runs 5.7 seconds.
func basicDemo() *Script {
	return &Script{
		Version:    "1.0",
		Background: "#000000",
		Mobjects: []MobjectSpec{
			{
				Name: "axes", Kind: "axes2d",
				XRange: &mobject.Range{Min: -4, Max: 4},
				YRange: &mobject.Range{Min: -3, Max: 3},
				Unit:   80, Stroke: "#808080", Hidden: true,
			},
			{
				Name: "dot", Kind: "circle", Radius: 30, At: vec(-200, 0),
				Stroke: "#4d99ff", Fill: "#4d99ff", FillOpacity: 0.3, Hidden: true,
			},
		},
		Steps: []StepSpec{
			{Play: []AnimSpec{{Animation: "fade_in", Target: "axes", Duration: seconds(1)}}},
			{Wait: seconds(0.2)},
			{Play: []AnimSpec{{Animation: "fade_in", Target: "dot", Duration: seconds(0.5)}}},
			{Wait: seconds(0.3)},
			{Play: []AnimSpec{{Animation: "move_to", Target: "dot", To: vec(200, 100), Duration: seconds(1.5), Easing: "ease_in_out_cubic"}}},
			{Wait: seconds(0.2)},
			{Play: []AnimSpec{{Animation: "move_to", Target: "dot", To: vec(-100, -80), Duration: seconds(1), Easing: "ease_out_back"}}},
			{Wait: seconds(0.2)},
			{Play: []AnimSpec{{Animation: "move_to", Target: "dot", To: vec(0, 0), Duration: seconds(0.8), Easing: "smooth"}}},
		},
	}
}

// plotDemo draws a function on 2D axes next to clustered data, then
// shows the GAM sample cloud on 3D axes.
func plotDemo() *Script {
	return &Script{
		Version:    "1.0",
		Background: "#101018",
		Mobjects: []MobjectSpec{
			{Name: "plane", Kind: "axes2d", At: vec(-320, 0), Unit: 60, Labels: true,
				XRange: &mobject.Range{Min: -4, Max: 4}, YRange: &mobject.Range{Min: -3, Max: 3}, Undrawn: true},
			{Name: "wave", Kind: "curve", On: "plane", Function: "sin",
				Domain: &mobject.Range{Min: -4, Max: 4}, Samples: 200, Undrawn: true},
			{Name: "groups", Kind: "scatter", On: "plane", Radius: 4, Hidden: true,
				Dataset: &DatasetSpec{Kind: "clusters", K: 3, Per: 12, Spread: 0.4, Seed: 3}},
			{Name: "space", Kind: "axes3d", At: vec(340, -40), Unit: 55, Undrawn: true},
			{Name: "cloud", Kind: "scatter", On: "space", Marker: "diamond", Radius: 3, Hidden: true,
				Stroke: "#ffcc66", Dataset: &DatasetSpec{Kind: "gam", Seed: 11}},
		},
		Steps: []StepSpec{
			{Play: []AnimSpec{
				{Animation: "create", Target: "plane", Duration: seconds(1.2)},
				{Animation: "create", Target: "space", Duration: seconds(1.2)},
			}},
			{Play: []AnimSpec{{Animation: "create", Target: "wave", Duration: seconds(1.5), Easing: "ease_in_out_sine"}}},
			{Play: []AnimSpec{
				{Animation: "fade_in", Target: "groups", Duration: seconds(0.8)},
				{Animation: "fade_in", Target: "cloud", Duration: seconds(0.8)},
			}},
			{Wait: seconds(0.5)},
			{Play: []AnimSpec{
				{Animation: "rotate", Target: "space", Angle: 30, Duration: seconds(1.5)},
				{Animation: "rotate", Target: "cloud", Angle: 30, Duration: seconds(1.5)},
				{Animation: "recolor", Target: "wave", Color: "#66ffcc", Duration: seconds(1.5)},
			}},
			{Play: []AnimSpec{{Animation: "fade_out", Target: "groups", Duration: seconds(0.6), Easing: "ease_out_quad"}}},
		},
	}
}
