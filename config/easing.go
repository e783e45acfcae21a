package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/motion"
)

// ErrUnknownEasing is returned for easing names ParseEasing does not know.
var ErrUnknownEasing = errors.New("unknown easing")

var easings = map[string]ease.TweenFunc{
	"linear":      motion.Linear,
	"ease":        motion.Ease,
	"ease-in":     motion.EaseIn,
	"ease-out":    motion.EaseOut,
	"ease-in-out": motion.EaseInOut,

	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-quart":       ease.InQuart,
	"out-quart":      ease.OutQuart,
	"in-out-quart":   ease.InOutQuart,
	"in-quint":       ease.InQuint,
	"out-quint":      ease.OutQuint,
	"in-out-quint":   ease.InOutQuint,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-circ":        ease.InCirc,
	"out-circ":       ease.OutCirc,
	"in-out-circ":    ease.InOutCirc,
	"in-elastic":     ease.InElastic,
	"out-elastic":    ease.OutElastic,
	"in-out-elastic": ease.InOutElastic,
	"in-back":        ease.InBack,
	"out-back":       ease.OutBack,
	"in-out-back":    ease.InOutBack,
	"in-bounce":      ease.InBounce,
	"out-bounce":     ease.OutBounce,
	"in-out-bounce":  ease.InOutBounce,
}

// ParseEasing resolves an easing name. Names are CSS keywords ("ease",
// "ease-in-out", "linear"), gween curves in kebab case ("out-bounce"), or
// "cubic-bezier(x1, y1, x2, y2)". An empty name is "ease".
func ParseEasing(name string) (ease.TweenFunc, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return motion.Ease, nil
	}
	if fn, ok := easings[name]; ok {
		return fn, nil
	}
	if args, ok := strings.CutPrefix(name, "cubic-bezier("); ok {
		return parseCubicBezier(strings.TrimSuffix(args, ")"))
	}
	return nil, fmt.Errorf("easing %q: %w", name, ErrUnknownEasing)
}

func parseCubicBezier(args string) (ease.TweenFunc, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("cubic-bezier needs 4 control values, got %d: %w", len(parts), ErrUnknownEasing)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("cubic-bezier value %q: %w", p, err)
		}
		v[i] = f
	}
	if v[0] < 0 || v[0] > 1 || v[2] < 0 || v[2] > 1 {
		return nil, fmt.Errorf("cubic-bezier x values must be within [0, 1]: %w", ErrUnknownEasing)
	}
	return motion.CubicBezier(v[0], v[1], v[2], v[3]), nil
}

// EasingNames returns every named curve, for help output.
func EasingNames() []string {
	return sortedKeys(easings)
}
