// Package script describes scenes as YAML documents and builds them into
// scene.Scene values.
package script

import (
	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/mobject"
)

// Script represents a complete scene description.
type Script struct {
	Version    string         `yaml:"version"`
	Background string         `yaml:"background,omitempty"` // hex color
	Camera     *CameraSpec    `yaml:"camera,omitempty"`
	CameraPath []KeyframeSpec `yaml:"camera_path,omitempty"`
	Mobjects   []MobjectSpec  `yaml:"mobjects"`
	Steps      []StepSpec     `yaml:"steps"`
}

type CameraSpec struct {
	Position geom.Vec2 `yaml:"position"`
	Zoom     float64   `yaml:"zoom"`
}

// KeyframeSpec pins the camera at Time; Easing shapes the move into it.
type KeyframeSpec struct {
	Time     float64   `yaml:"time"`
	Position geom.Vec2 `yaml:"position"`
	Zoom     float64   `yaml:"zoom"`
	Easing   string    `yaml:"easing,omitempty"`
}

// MobjectSpec declares one mobject. Which fields matter depends on Kind.
type MobjectSpec struct {
	Name string     `yaml:"name"`
	Kind string     `yaml:"kind"`
	At   *geom.Vec2 `yaml:"at,omitempty"`

	// circle, rectangle
	Radius float64 `yaml:"radius,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	// line, arrow
	From    *geom.Vec2 `yaml:"from,omitempty"`
	To      *geom.Vec2 `yaml:"to,omitempty"`
	TipSize float64    `yaml:"tip_size,omitempty"`

	// axes2d, axes3d
	XRange      *mobject.Range `yaml:"x_range,omitempty"`
	YRange      *mobject.Range `yaml:"y_range,omitempty"`
	ZRange      *mobject.Range `yaml:"z_range,omitempty"`
	Unit        float64        `yaml:"unit,omitempty"`
	Ticks       *bool          `yaml:"ticks,omitempty"`
	TickSpacing float64        `yaml:"tick_spacing,omitempty"`
	Labels      bool           `yaml:"labels,omitempty"`
	Yaw         float64        `yaml:"yaw,omitempty"` // degrees

	// curve, scatter: either literal points, a function or a dataset.
	// On names an axes mobject whose data space the points live in.
	Points   []geom.Vec2    `yaml:"points,omitempty"`
	Function string         `yaml:"function,omitempty"`
	Domain   *mobject.Range `yaml:"domain,omitempty"`
	Samples  int            `yaml:"samples,omitempty"`
	Dataset  *DatasetSpec   `yaml:"dataset,omitempty"`
	On       string         `yaml:"on,omitempty"`
	Marker   string         `yaml:"marker,omitempty"`

	// image
	Source string `yaml:"source,omitempty"`
	Page   int    `yaml:"page,omitempty"` // 1-based
	Crop   bool   `yaml:"crop,omitempty"`

	// qrcode
	Content string  `yaml:"content,omitempty"`
	Module  float64 `yaml:"module,omitempty"`

	Stroke      string   `yaml:"stroke,omitempty"`
	Fill        string   `yaml:"fill,omitempty"`
	FillOpacity float64  `yaml:"fill_opacity,omitempty"`
	StrokeWidth float64  `yaml:"stroke_width,omitempty"`
	Opacity     *float64 `yaml:"opacity,omitempty"`
	Hidden      bool     `yaml:"hidden,omitempty"`
	Undrawn     bool     `yaml:"undrawn,omitempty"`
}

// DatasetSpec selects one of the generators in package dataset.
type DatasetSpec struct {
	Kind      string  `yaml:"kind"` // gam, linear, clusters
	N         int     `yaml:"n,omitempty"`
	Slope     float64 `yaml:"slope,omitempty"`
	Intercept float64 `yaml:"intercept,omitempty"`
	Noise     float64 `yaml:"noise,omitempty"`
	K         int     `yaml:"k,omitempty"`
	Per       int     `yaml:"per,omitempty"`
	Spread    float64 `yaml:"spread,omitempty"`
	Seed      uint64  `yaml:"seed,omitempty"`
}

// StepSpec is either a parallel group of animations or a pause.
type StepSpec struct {
	Play []AnimSpec `yaml:"play,omitempty"`
	Wait *float64   `yaml:"wait,omitempty"`
}

type AnimSpec struct {
	Animation string     `yaml:"animation"`
	Target    string     `yaml:"target"`
	Duration  *float64   `yaml:"duration,omitempty"`
	Easing    string     `yaml:"easing,omitempty"`
	To        *geom.Vec2 `yaml:"to,omitempty"`
	By        *geom.Vec2 `yaml:"by,omitempty"`
	Factor    float64    `yaml:"factor,omitempty"`
	Angle     float64    `yaml:"angle,omitempty"` // degrees
	Opacity   *float64   `yaml:"opacity,omitempty"`
	Color     string     `yaml:"color,omitempty"`
}
