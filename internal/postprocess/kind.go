// Package postprocess chains full-screen image filters over a render target.
package postprocess

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Kind identifies a filter type.
type Kind int

const (
	KindSampling Kind = iota
	KindBlurDown
	KindBlurUp
	KindCombine
	KindFog
	KindFXAA
	KindToneMapping
)

var kindNames = [...]string{
	KindSampling:    "Sampling",
	KindBlurDown:    "BlurDown",
	KindBlurUp:      "BlurUp",
	KindCombine:     "Combine",
	KindFog:         "Fog",
	KindFXAA:        "FXAA",
	KindToneMapping: "ToneMapping",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Hash is the stable identity of the filter type.
func (k Kind) Hash() uint64 { return xxhash.Sum64String(k.String()) }

// FXAAQuality selects one of six FXAA programs.
type FXAAQuality int

const (
	FXAAVeryLow FXAAQuality = iota
	FXAALow
	FXAAMedium
	FXAAHigh
	FXAAVeryHigh
	FXAAUltra
)

var fxaaNames = [...]string{"VeryLow", "Low", "Medium", "High", "VeryHigh", "Ultra"}

func (q FXAAQuality) String() string {
	if q < 0 || int(q) >= len(fxaaNames) {
		return fmt.Sprintf("FXAAQuality(%d)", int(q))
	}
	return fxaaNames[q]
}

func (q FXAAQuality) valid() bool { return q >= FXAAVeryLow && q <= FXAAUltra }

// Program is the shader program name for this quality level.
func (q FXAAQuality) Program() string { return fmt.Sprintf("fxaa_q%d", int(q)) }

func ParseFXAAQuality(s string) (FXAAQuality, error) {
	for i, n := range fxaaNames {
		if strings.EqualFold(n, s) {
			return FXAAQuality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown fxaa quality %q", s)
}

// ToneMapping selects a tone mapping operator.
type ToneMapping int

const (
	Uncharted2 ToneMapping = iota
	Reinhard
	WhitePreservingReinhard
	LumaBasedReinhard
	RombDaHouse
	Filmic
	Linear
)

var toneNames = [...]string{
	Uncharted2:              "Uncharted2",
	Reinhard:                "Reinhard",
	WhitePreservingReinhard: "WhitePreservingReinhard",
	LumaBasedReinhard:       "LumaBasedReinhard",
	RombDaHouse:             "RombDaHouse",
	Filmic:                  "Filmic",
	Linear:                  "Linear",
}

func (t ToneMapping) String() string {
	if t < 0 || int(t) >= len(toneNames) {
		return fmt.Sprintf("ToneMapping(%d)", int(t))
	}
	return toneNames[t]
}

func (t ToneMapping) valid() bool { return t >= Uncharted2 && t <= Linear }

// Program is the shader program name for this operator.
func (t ToneMapping) Program() string { return "tonemap_" + strings.ToLower(t.String()) }

func ParseToneMapping(s string) (ToneMapping, error) {
	for i, n := range toneNames {
		if strings.EqualFold(n, s) {
			return ToneMapping(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tone mapping %q", s)
}

// Fixed program names.
const (
	ProgramSampling = "sampling"
	ProgramBlurDown = "blur_down"
	ProgramBlurUp   = "blur_up"
	ProgramCombine  = "combine"
	ProgramFog      = "fog"
)

// Programs lists every program a pipeline may bind.
func Programs() []string {
	names := []string{ProgramSampling, ProgramBlurDown, ProgramBlurUp, ProgramCombine, ProgramFog}
	for q := FXAAVeryLow; q <= FXAAUltra; q++ {
		names = append(names, q.Program())
	}
	for t := Uncharted2; t <= Linear; t++ {
		names = append(names, t.Program())
	}
	return names
}
