package script

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/maquette/internal/analyzer"
	"github.com/ivlev/maquette/internal/animation"
	"github.com/ivlev/maquette/internal/dataset"
	"github.com/ivlev/maquette/internal/easing"
	"github.com/ivlev/maquette/internal/geom"
	"github.com/ivlev/maquette/internal/mobject"
	"github.com/ivlev/maquette/internal/scene"
)

// ImageLoader returns page (0-based) of the file at path.
type ImageLoader interface {
	Load(path string, page int) (image.Image, error)
}

// Names maps script mobject names to registry ids.
type Names map[string]mobject.ID

var functions = map[string]func(float64) float64{
	"sin":      math.Sin,
	"cos":      math.Cos,
	"tan":      math.Tan,
	"exp":      math.Exp,
	"sqrt":     math.Sqrt,
	"abs":      math.Abs,
	"tanh":     math.Tanh,
	"identity": func(x float64) float64 { return x },
	"square":   func(x float64) float64 { return x * x },
	"cube":     func(x float64) float64 { return x * x * x },
	"sigmoid":  func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
	"gaussian": func(x float64) float64 { return math.Exp(-x * x / 2) },
}

// ParseColor accepts "#rrggbb" or "rrggbb".
func ParseColor(s string) (colorful.Color, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}

// Build creates the scene described by s. loader may be nil when the script
// has no image mobjects.
func Build(s *Script, loader ImageLoader) (*scene.Scene, Names, error) {
	b := &builder{
		scene:  scene.New(),
		names:  make(Names),
		specs:  make(map[string]MobjectSpec),
		loader: loader,
	}
	if err := b.setup(s); err != nil {
		return nil, nil, err
	}
	for i, spec := range s.Mobjects {
		if err := b.addMobject(spec); err != nil {
			return nil, nil, fmt.Errorf("mobject %d (%s): %w", i+1, spec.Name, err)
		}
	}
	for i, step := range s.Steps {
		if err := b.addStep(step); err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	if err := b.scene.Err(); err != nil {
		return nil, nil, err
	}
	return b.scene, b.names, nil
}

type builder struct {
	scene  *scene.Scene
	names  Names
	specs  map[string]MobjectSpec
	loader ImageLoader
}

func (b *builder) setup(s *Script) error {
	if s.Background != "" {
		c, err := ParseColor(s.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		b.scene.SetBackground(c)
	}
	if s.Camera != nil {
		b.scene.SetCamera(scene.Camera{Position: s.Camera.Position, Zoom: zoomOrOne(s.Camera.Zoom)})
	}
	if len(s.CameraPath) == 0 {
		return nil
	}
	kfs := make([]scene.CameraKeyframe, len(s.CameraPath))
	for i, k := range s.CameraPath {
		e, err := easing.Parse(k.Easing)
		if err != nil {
			return fmt.Errorf("camera keyframe %d: %w", i+1, err)
		}
		kfs[i] = scene.CameraKeyframe{Time: k.Time, Position: k.Position, Zoom: zoomOrOne(k.Zoom), Easing: e}
	}
	b.scene.AnimateCamera(kfs...)
	return nil
}

func zoomOrOne(z float64) float64 {
	if z <= 0 {
		return 1
	}
	return z
}

func (b *builder) addMobject(spec MobjectSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, dup := b.names[spec.Name]; dup {
		return fmt.Errorf("duplicate name %q", spec.Name)
	}

	m, err := b.shape(spec)
	if err != nil {
		return err
	}
	m, err = style(m, spec)
	if err != nil {
		return err
	}
	b.names[spec.Name] = b.scene.Add(m.Named(spec.Name))
	b.specs[spec.Name] = spec
	return nil
}

func (b *builder) shape(spec MobjectSpec) (mobject.Mobject, error) {
	switch strings.ToLower(spec.Kind) {
	case "circle":
		return mobject.NewCircle(orDefault(spec.Radius, 50)), nil
	case "rectangle":
		return mobject.NewRectangle(orDefault(spec.Width, 100), orDefault(spec.Height, 60)), nil
	case "line", "arrow":
		if spec.From == nil || spec.To == nil {
			return mobject.Mobject{}, fmt.Errorf("%s needs from and to", spec.Kind)
		}
		if strings.EqualFold(spec.Kind, "line") {
			return mobject.NewLine(*spec.From, *spec.To), nil
		}
		m := mobject.NewArrow(*spec.From, *spec.To)
		if spec.TipSize > 0 {
			a := m.Shape.(mobject.Arrow)
			a.TipSize = spec.TipSize
			m.Shape = a
		}
		return m, nil
	case "axes2d":
		return mobject.NewAxes2D(axes2D(spec)), nil
	case "axes3d":
		return mobject.NewAxes3D(axes3D(spec)), nil
	case "curve":
		pts, proj, err := b.curvePoints(spec)
		if err != nil {
			return mobject.Mobject{}, err
		}
		m := mobject.NewCurve(pts)
		if spec.On != "" && spec.At == nil {
			m = m.At(proj.at)
		}
		return m, nil
	case "scatter":
		return b.scatter(spec)
	case "image":
		return b.image(spec)
	case "qrcode":
		if spec.Content == "" {
			return mobject.Mobject{}, fmt.Errorf("qrcode needs content")
		}
		return mobject.NewQRCode(spec.Content, spec.Module)
	default:
		return mobject.Mobject{}, fmt.Errorf("unknown kind %q", spec.Kind)
	}
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func axes2D(spec MobjectSpec) mobject.Axes2D {
	a := mobject.DefaultAxes2D()
	if spec.XRange != nil {
		a.X = *spec.XRange
	}
	if spec.YRange != nil {
		a.Y = *spec.YRange
	}
	a.Unit = orDefault(spec.Unit, a.Unit)
	if spec.Ticks != nil {
		a.Ticks = *spec.Ticks
	}
	a.TickSpacing = orDefault(spec.TickSpacing, a.TickSpacing)
	a.Labels = spec.Labels
	return a
}

func axes3D(spec MobjectSpec) mobject.Axes3D {
	a := mobject.DefaultAxes3D()
	if spec.XRange != nil {
		a.X = *spec.XRange
	}
	if spec.YRange != nil {
		a.Y = *spec.YRange
	}
	if spec.ZRange != nil {
		a.Z = *spec.ZRange
	}
	a.Unit = orDefault(spec.Unit, a.Unit)
	a.Yaw = spec.Yaw * math.Pi / 180
	return a
}

// projector maps data points into the local space of the mobject being
// built. Without an "on" axes, points are used as is, scaled by Unit.
type projector struct {
	at      geom.Vec2
	project func(geom.Vec3) geom.Vec2
}

func (b *builder) projector(spec MobjectSpec) (projector, error) {
	if spec.On == "" {
		unit := orDefault(spec.Unit, 1)
		return projector{project: func(p geom.Vec3) geom.Vec2 { return geom.V(p.X, p.Y).Scale(unit) }}, nil
	}
	id, ok := b.names[spec.On]
	if !ok {
		return projector{}, fmt.Errorf("on: no mobject named %q declared before %q", spec.On, spec.Name)
	}
	m, err := b.scene.Get(id)
	if err != nil {
		return projector{}, err
	}
	switch ax := m.Shape.(type) {
	case mobject.Axes2D:
		return projector{at: m.State.Position, project: func(p geom.Vec3) geom.Vec2 {
			return ax.ToScreen(geom.Vec2{}, geom.V(p.X, p.Y))
		}}, nil
	case mobject.Axes3D:
		return projector{at: m.State.Position, project: ax.Project}, nil
	default:
		return projector{}, fmt.Errorf("on: %q is a %s, not axes", spec.On, m.Kind())
	}
}

func (b *builder) curvePoints(spec MobjectSpec) ([]geom.Vec2, projector, error) {
	proj, err := b.projector(spec)
	if err != nil {
		return nil, projector{}, err
	}
	if len(spec.Points) > 0 {
		pts := make([]geom.Vec2, len(spec.Points))
		for i, p := range spec.Points {
			pts[i] = proj.project(geom.Vec3{X: p.X, Y: p.Y})
		}
		return pts, proj, nil
	}
	f, ok := functions[strings.ToLower(spec.Function)]
	if !ok {
		return nil, projector{}, fmt.Errorf("curve needs points or a known function, got %q", spec.Function)
	}
	domain := mobject.Range{Min: -3, Max: 3}
	if spec.Domain != nil {
		domain = *spec.Domain
	}
	samples := spec.Samples
	if samples <= 1 {
		samples = 100
	}
	raw := mobject.SampleFunction(f, domain.Min, domain.Max, samples, 1)
	pts := make([]geom.Vec2, len(raw))
	for i, p := range raw {
		pts[i] = proj.project(geom.Vec3{X: p.X, Y: p.Y})
	}
	return pts, proj, nil
}

func (b *builder) scatter(spec MobjectSpec) (mobject.Mobject, error) {
	marker, err := mobject.ParseMarker(spec.Marker)
	if err != nil {
		return mobject.Mobject{}, err
	}
	proj, err := b.projector(spec)
	if err != nil {
		return mobject.Mobject{}, err
	}

	var data []geom.Vec3
	var colors []colorful.Color
	switch {
	case spec.Dataset != nil:
		ds, err := generate(*spec.Dataset)
		if err != nil {
			return mobject.Mobject{}, err
		}
		data = ds.Points
		if strings.EqualFold(spec.Dataset.Kind, "clusters") {
			colors = clusterColors(ds, spec.Dataset.K)
		}
		if !isAxes3D(b, spec.On) {
			// 2D targets ignore the z column
			for i := range data {
				data[i].Z = 0
			}
		}
	case len(spec.Points) > 0:
		for _, p := range spec.Points {
			data = append(data, geom.Vec3{X: p.X, Y: p.Y})
		}
	default:
		return mobject.Mobject{}, fmt.Errorf("scatter needs points or a dataset")
	}

	pts := make([]geom.Vec2, len(data))
	for i, p := range data {
		pts[i] = proj.project(p)
	}
	m := mobject.NewScatter(mobject.Scatter{Points: pts, Radius: spec.Radius, Marker: marker, Colors: colors})
	if spec.On != "" && spec.At == nil {
		m = m.At(proj.at)
	}
	return m, nil
}

func isAxes3D(b *builder, name string) bool {
	spec, ok := b.specs[name]
	return ok && strings.EqualFold(spec.Kind, "axes3d")
}

func generate(d DatasetSpec) (dataset.Dataset, error) {
	switch strings.ToLower(d.Kind) {
	case "gam":
		return dataset.GAM(d.Seed), nil
	case "linear":
		n := d.N
		if n <= 0 {
			n = 30
		}
		return dataset.Linear(n, d.Slope, d.Intercept, d.Noise, d.Seed), nil
	case "clusters":
		if d.K <= 0 || d.Per <= 0 {
			return dataset.Dataset{}, fmt.Errorf("clusters need k and per")
		}
		return dataset.Clusters(d.K, d.Per, d.Spread, d.Seed), nil
	default:
		return dataset.Dataset{}, fmt.Errorf("unknown dataset %q", d.Kind)
	}
}

// clusterColors spreads k hues around the wheel and colors every point by
// its cluster id.
func clusterColors(ds dataset.Dataset, k int) []colorful.Color {
	palette := make([]colorful.Color, max(k, 1))
	for i := range palette {
		palette[i] = colorful.Hsv(360*float64(i)/float64(len(palette)), 0.6, 0.95)
	}
	colors := make([]colorful.Color, len(ds.Points))
	for i, p := range ds.Points {
		colors[i] = palette[int(p.Z)%len(palette)]
	}
	return colors
}

func (b *builder) image(spec MobjectSpec) (mobject.Mobject, error) {
	if b.loader == nil {
		return mobject.Mobject{}, fmt.Errorf("image %s: no loader configured", spec.Source)
	}
	img, err := b.loader.Load(spec.Source, max(spec.Page-1, 0))
	if err != nil {
		return mobject.Mobject{}, err
	}
	if spec.Crop {
		r, ok, err := analyzer.ContentBounds(img, analyzer.NewContrastDetector(), 8)
		if err != nil {
			return mobject.Mobject{}, err
		}
		if ok {
			img = analyzer.Crop(img, r)
		}
	}
	return mobject.NewImage(img, orDefault(spec.Width, float64(img.Bounds().Dx()))), nil
}

func style(m mobject.Mobject, spec MobjectSpec) (mobject.Mobject, error) {
	if spec.At != nil {
		m = m.At(*spec.At)
	}
	if spec.Stroke != "" {
		c, err := ParseColor(spec.Stroke)
		if err != nil {
			return m, err
		}
		m = m.WithStroke(c)
	}
	if spec.Fill != "" {
		c, err := ParseColor(spec.Fill)
		if err != nil {
			return m, err
		}
		m = m.WithFill(c, orDefault(spec.FillOpacity, 1))
	}
	if spec.StrokeWidth > 0 {
		m = m.WithStrokeWidth(spec.StrokeWidth)
	}
	if spec.Opacity != nil {
		m = m.WithOpacity(*spec.Opacity)
	}
	if spec.Hidden {
		m = m.Hidden()
	}
	if spec.Undrawn {
		m = m.Undrawn()
	}
	return m, nil
}

func (b *builder) addStep(step StepSpec) error {
	switch {
	case step.Wait != nil && len(step.Play) > 0:
		return fmt.Errorf("a step is either play or wait, not both")
	case step.Wait != nil:
		b.scene.Wait(*step.Wait)
	case len(step.Play) > 0:
		anims := make([]animation.Animation, len(step.Play))
		for i, spec := range step.Play {
			a, err := b.animation(spec)
			if err != nil {
				return fmt.Errorf("animation %d: %w", i+1, err)
			}
			anims[i] = a
		}
		b.scene.Play(anims...)
	default:
		return fmt.Errorf("empty step")
	}
	return b.scene.Err()
}

func (b *builder) animation(spec AnimSpec) (animation.Animation, error) {
	id, ok := b.names[spec.Target]
	if !ok {
		return animation.Animation{}, fmt.Errorf("target %q: %w", spec.Target, mobject.ErrNotFound)
	}
	kind, err := animation.ParseKind(spec.Animation)
	if err != nil {
		return animation.Animation{}, err
	}

	var a animation.Animation
	switch kind {
	case animation.KindFadeIn:
		a = animation.FadeIn(id)
		if spec.Opacity != nil {
			a = a.WithOpacity(*spec.Opacity)
		}
	case animation.KindFadeOut:
		a = animation.FadeOut(id)
	case animation.KindCreate:
		a = animation.Create(id)
	case animation.KindUncreate:
		a = animation.Uncreate(id)
	case animation.KindMoveTo:
		if spec.To == nil {
			return a, fmt.Errorf("move_to needs to")
		}
		a = animation.MoveTo(id, *spec.To)
	case animation.KindShift:
		if spec.By == nil {
			return a, fmt.Errorf("shift needs by")
		}
		a = animation.Shift(id, *spec.By)
	case animation.KindScale:
		if spec.Factor == 0 {
			return a, fmt.Errorf("scale needs factor")
		}
		a = animation.Scale(id, spec.Factor)
	case animation.KindRotate:
		a = animation.RotateDegrees(id, spec.Angle)
	case animation.KindRecolor:
		c, err := ParseColor(spec.Color)
		if err != nil {
			return a, err
		}
		a = animation.Recolor(id, c)
	}

	if spec.Duration != nil {
		a = a.WithDuration(*spec.Duration)
	}
	if spec.Easing != "" {
		e, err := easing.Parse(spec.Easing)
		if err != nil {
			return a, err
		}
		a = a.WithEasing(e)
	}
	return a, nil
}
