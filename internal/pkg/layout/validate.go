package layout

import (
	"fmt"

	"github.com/processout/picasso/internal/pkg/model"
)

// Validate decides whether the chart is time-scaled, and rejects inconsistent inputs.
//
// Lines must either all use temporal keys or all use categorical keys. Bars never carry temporal
// keys, and cannot be drawn along with time-scaled lines.
func Validate(lines []model.Line, bars []model.Bar) (timeScaled bool, err error) {
	var (
		firstTemporal, firstCategory string
		temporal, categorical        int
	)

	for _, l := range lines {
		for _, p := range l.Points {
			if p.Key.IsTemporal() {
				if temporal == 0 {
					firstTemporal = l.Name + "@" + p.Key.String()
				}
				temporal++

				continue
			}

			if categorical == 0 {
				firstCategory = l.Name + "@" + p.Key.String()
			}
			categorical++
		}
	}

	if temporal > 0 && categorical > 0 {
		return false, fmt.Errorf(
			"%w: lines mix temporal keys (e.g. %q) and categorical keys (e.g. %q): keys should either all be instants, or none",
			ErrInconsistentKeyKind, firstTemporal, firstCategory,
		)
	}

	timeScaled = temporal > 0

	for _, b := range bars {
		for _, r := range b.Rows {
			if r.Key.IsTemporal() {
				return false, fmt.Errorf("%w: bar %q has a temporal key %q, which is not supported",
					ErrUnsupportedTemporalBars, b.Name, r.Key.String(),
				)
			}
		}
	}

	if timeScaled && len(bars) > 0 {
		return false, fmt.Errorf("%w: lines use temporal keys but %d bar series are also registered",
			ErrUnsupportedTemporalBars, len(bars),
		)
	}

	return timeScaled, nil
}
