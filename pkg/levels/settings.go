package levels

import(
	"fmt"
)

// Settings are the five user-facing levels controls for one channel,
// all on the 0-255 scale.
type Settings struct {
	InputBlack  int `yaml:"input_black"`
	InputWhite  int `yaml:"input_white"`
	Midpoint    int `yaml:"midpoint"`    // input value that should land on 50% grey
	OutputBlack int `yaml:"output_black"`
	OutputWhite int `yaml:"output_white"`
}

// IdentitySettings leave every pixel as it is.
func IdentitySettings() Settings {
	return Settings{InputBlack: 0, InputWhite: 255, Midpoint: 128, OutputBlack: 0, OutputWhite: 255}
}

func (s Settings)String() string {
	return fmt.Sprintf("in[%d..%d..%d] out[%d..%d]", s.InputBlack, s.Midpoint, s.InputWhite, s.OutputBlack, s.OutputWhite)
}

// IsIdentity is true for the reset state.
func (s Settings)IsIdentity() bool { return s == IdentitySettings() }

// ControlPoints are the three draggable input handles.
func (s Settings)ControlPoints() ControlPoints {
	return ControlPoints{Black: s.InputBlack, Mid: s.Midpoint, White: s.InputWhite}
}

// Channels holds the settings for R, G and B. There is no separate
// composite record: Luminance mode reads Red and writes all three.
type Channels [3]Settings

// fanOut lists, per mode, which channel slots an edit is written to.
var fanOut = [...][]int{
	Luminance: {0, 1, 2},
	Red:       {0},
	Green:     {1},
	Blue:      {2},
}

func NewChannels() Channels {
	return Channels{IdentitySettings(), IdentitySettings(), IdentitySettings()}
}

func targets(mode ChannelMode) []int {
	if mode < Luminance || mode > Blue {
		return nil
	}
	return fanOut[mode]
}

// Get returns the settings that the given mode displays.
func (c *Channels)Get(mode ChannelMode) Settings {
	if t := targets(mode); len(t) > 0 {
		return c[t[0]]
	}
	return c[0]
}

// Set overwrites every channel the mode writes to.
func (c *Channels)Set(mode ChannelMode, s Settings) {
	for _, i := range targets(mode) {
		c[i] = s
	}
}

// Update runs fn against every channel the mode writes to. fn should
// set fields to absolute values, so that a composite edit leaves the
// untouched fields of each channel alone.
func (c *Channels)Update(mode ChannelMode, fn func(*Settings)) {
	for _, i := range targets(mode) {
		fn(&c[i])
	}
}

func (c *Channels)Reset() {
	*c = NewChannels()
}

// Solve returns the curves for R, G and B, in that order.
func (c Channels)Solve() [3]CurveParameters {
	return [3]CurveParameters{SolveCurve(c[0]), SolveCurve(c[1]), SolveCurve(c[2])}
}

func (c Channels)String() string {
	return fmt.Sprintf("R:%s G:%s B:%s", c[0], c[1], c[2])
}
