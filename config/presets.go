// Package config loads named spring, tween and presence presets from YAML
// and decodes loosely typed option bags into motion configurations.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/motion"
)

// ErrUnknownPreset is returned when a preset name is not defined.
var ErrUnknownPreset = errors.New("unknown preset")

// SpringPreset is the file form of motion.SpringConfig.
type SpringPreset struct {
	Stiffness float64 `yaml:"stiffness" mapstructure:"stiffness"`
	Damping   float64 `yaml:"damping" mapstructure:"damping"`
	Mass      float64 `yaml:"mass,omitempty" mapstructure:"mass"`
	RestDelta float64 `yaml:"restDelta,omitempty" mapstructure:"restDelta"`
}

// Config converts the preset and validates it.
func (p SpringPreset) Config() (motion.SpringConfig, error) {
	cfg := motion.SpringConfig{
		Stiffness: p.Stiffness,
		Damping:   p.Damping,
		Mass:      p.Mass,
		RestDelta: p.RestDelta,
	}
	if err := cfg.Validate(); err != nil {
		return motion.SpringConfig{}, err
	}
	return cfg, nil
}

// TweenPreset is the file form of motion.TweenConfig. Easing is a curve name
// understood by ParseEasing; empty means "ease".
type TweenPreset struct {
	Duration float32 `yaml:"duration" mapstructure:"duration"`
	Delay    float32 `yaml:"delay,omitempty" mapstructure:"delay"`
	Easing   string  `yaml:"easing,omitempty" mapstructure:"easing"`
}

// Config converts the preset and validates it.
func (p TweenPreset) Config() (motion.TweenConfig, error) {
	if !(p.Duration >= 0) {
		return motion.TweenConfig{}, fmt.Errorf("tween duration %v: %w", p.Duration, motion.ErrInvalidDuration)
	}
	if !(p.Delay >= 0) {
		return motion.TweenConfig{}, fmt.Errorf("tween delay %v: %w", p.Delay, motion.ErrInvalidDuration)
	}
	fn, err := ParseEasing(p.Easing)
	if err != nil {
		return motion.TweenConfig{}, err
	}
	return motion.TweenConfig{Duration: p.Duration, Delay: p.Delay, Easing: fn}, nil
}

// PosePreset is the file form of motion.Pose. Omitted fields take their
// value from motion.IdentityPose.
type PosePreset struct {
	X       *float64 `yaml:"x,omitempty"`
	Y       *float64 `yaml:"y,omitempty"`
	Scale   *float64 `yaml:"scale,omitempty"`
	Rotate  *float64 `yaml:"rotate,omitempty"`
	Opacity *float64 `yaml:"opacity,omitempty"`
}

// Pose fills omitted fields from the identity pose.
func (p PosePreset) Pose() motion.Pose {
	out := motion.IdentityPose
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&out.X, p.X)
	set(&out.Y, p.Y)
	set(&out.Scale, p.Scale)
	set(&out.Rotate, p.Rotate)
	set(&out.Opacity, p.Opacity)
	return out
}

// PresencePreset is the file form of motion.PresenceConfig.
type PresencePreset struct {
	Initial PosePreset  `yaml:"initial"`
	Animate PosePreset  `yaml:"animate"`
	Exit    PosePreset  `yaml:"exit"`
	Enter   TweenPreset `yaml:"enter"`
	Leave   TweenPreset `yaml:"leave"`
}

// Config converts the preset.
func (p PresencePreset) Config() (motion.PresenceConfig, error) {
	enter, err := p.Enter.Config()
	if err != nil {
		return motion.PresenceConfig{}, fmt.Errorf("enter: %w", err)
	}
	leave, err := p.Leave.Config()
	if err != nil {
		return motion.PresenceConfig{}, fmt.Errorf("leave: %w", err)
	}
	return motion.PresenceConfig{
		Initial: p.Initial.Pose(),
		Animate: p.Animate.Pose(),
		Exit:    p.Exit.Pose(),
		Enter:   enter,
		Leave:   leave,
	}, nil
}

// Presets is a set of named configurations, usually read from a file such as:
//
//	springs:
//	  wobbly: {stiffness: 180, damping: 12}
//	tweens:
//	  fade: {duration: 0.4, easing: ease-out}
//	presence:
//	  pop:
//	    initial: {scale: 0, opacity: 0}
//	    exit: {scale: 0, opacity: 0}
//	    enter: {duration: 0.3}
//	    leave: {duration: 0.2, easing: ease-in}
type Presets struct {
	Springs  map[string]SpringPreset   `yaml:"springs"`
	Tweens   map[string]TweenPreset    `yaml:"tweens"`
	Presence map[string]PresencePreset `yaml:"presence"`
}

// Default returns the built-in presets.
func Default() *Presets {
	spring := func(c motion.SpringConfig) SpringPreset {
		return SpringPreset{Stiffness: c.Stiffness, Damping: c.Damping, Mass: c.Mass, RestDelta: c.RestDelta}
	}
	zero, one := 0.0, 1.0
	return &Presets{
		Springs: map[string]SpringPreset{
			"default": spring(motion.DefaultSpring),
			"snap":    spring(motion.SnapSpring),
			"follow":  spring(motion.FollowSpring),
		},
		Tweens: map[string]TweenPreset{
			"counter": {Duration: 5, Easing: "ease"},
			"enter":   {Duration: 1, Easing: "ease"},
			"exit":    {Duration: 0.3, Easing: "ease-out"},
		},
		Presence: map[string]PresencePreset{
			"fade": {
				Initial: PosePreset{Scale: &zero, Opacity: &zero},
				Animate: PosePreset{Scale: &one, Opacity: &one},
				Exit:    PosePreset{Scale: &zero, Opacity: &zero},
				Enter:   TweenPreset{Duration: 0.3, Easing: "ease-out"},
				Leave:   TweenPreset{Duration: 0.3, Easing: "ease-out"},
			},
		},
	}
}

// Load reads presets from a YAML file. Presets in the file are merged over
// the built-in ones.
func Load(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load presets %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load presets %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes YAML presets, merged over the built-in ones. Unknown keys and
// invalid parameters are errors.
func Parse(data []byte) (*Presets, error) {
	var file Presets
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	p := Default()
	for name, s := range file.Springs {
		if _, err := s.Config(); err != nil {
			return nil, fmt.Errorf("spring %q: %w", name, err)
		}
		p.Springs[name] = s
	}
	for name, t := range file.Tweens {
		if _, err := t.Config(); err != nil {
			return nil, fmt.Errorf("tween %q: %w", name, err)
		}
		p.Tweens[name] = t
	}
	for name, pr := range file.Presence {
		if _, err := pr.Config(); err != nil {
			return nil, fmt.Errorf("presence %q: %w", name, err)
		}
		p.Presence[name] = pr
	}
	return p, nil
}

// Spring returns the named spring configuration.
func (p *Presets) Spring(name string) (motion.SpringConfig, error) {
	s, ok := p.Springs[name]
	if !ok {
		return motion.SpringConfig{}, fmt.Errorf("spring %q: %w", name, ErrUnknownPreset)
	}
	return s.Config()
}

// Tween returns the named tween configuration.
func (p *Presets) Tween(name string) (motion.TweenConfig, error) {
	t, ok := p.Tweens[name]
	if !ok {
		return motion.TweenConfig{}, fmt.Errorf("tween %q: %w", name, ErrUnknownPreset)
	}
	return t.Config()
}

// PresenceConfig returns the named presence configuration.
func (p *Presets) PresenceConfig(name string) (motion.PresenceConfig, error) {
	pr, ok := p.Presence[name]
	if !ok {
		return motion.PresenceConfig{}, fmt.Errorf("presence %q: %w", name, ErrUnknownPreset)
	}
	return pr.Config()
}

// Names returns the sorted preset names of each kind.
func (p *Presets) Names() (springs, tweens, presence []string) {
	return sortedKeys(p.Springs), sortedKeys(p.Tweens), sortedKeys(p.Presence)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DecodeSpring decodes a loosely typed option bag, such as a JSON object from
// a debug endpoint, into a spring configuration. Numeric strings are
// accepted; unknown keys are errors.
func DecodeSpring(opts map[string]any) (motion.SpringConfig, error) {
	var p SpringPreset
	if err := decodeStrict(opts, &p); err != nil {
		return motion.SpringConfig{}, fmt.Errorf("decode spring: %w", err)
	}
	return p.Config()
}

// DecodeTween decodes a loosely typed option bag into a tween configuration.
func DecodeTween(opts map[string]any) (motion.TweenConfig, error) {
	var p TweenPreset
	if err := decodeStrict(opts, &p); err != nil {
		return motion.TweenConfig{}, fmt.Errorf("decode tween: %w", err)
	}
	return p.Config()
}

func decodeStrict(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
