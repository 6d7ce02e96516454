package schema

import "regexp"

// Parameter names of the built-in registry.
const (
	Color                  = "color"
	LineStyle              = "ls"
	MarkerShape            = "marker_shape"
	MarkerSize             = "marker_size"
	Label                  = "label"
	AxesFontSize           = "axes_font_size"
	AxesSmallTicks         = "axes_number_of_small_ticks"
	AxesRoundAccuracy      = "axes_round_accuracy"
	LogarithmicScaling     = "logarithmic_scaling"
	AxesScaling            = "axes_scaling"
	AxesTitles             = "axes_titles"
	SubplotsTitlesFontSize = "subplots_titles_font_size"
	SubplotsTitles         = "subplots_titles"
	LegendFontSize         = "legend_font_size"
)

// Scaling modes.
const (
	ScalingNone     = "none"
	ScalingDivide   = "divide"
	ScalingMultiply = "multiply"
)

// LineStyles are the accepted values of "ls".
var LineStyles = []string{"-", "--", "-.", ":", ""}

// MarkerGlyphs are the accepted values of "marker_shape". The empty string
// draws no marker.
var MarkerGlyphs = []string{
	".", ",", "o", "v", "^", "<", ">", "1", "2", "3", "4", "8", "s",
	"p", "P", "*", "h", "H", "+", "x", "X", "D", "d", "|", "_", "",
}

// Palette is the default curve color cycle.
var Palette = []any{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// RoundAccuracyPattern matches numeric format strings like "%0.3f".
var RoundAccuracyPattern = regexp.MustCompile(`^%0\.[0-9]+f$`)

// BuiltinSpecs returns the built-in parameter specs.
func BuiltinSpecs() []ParameterSpec {
	positive := &ParameterSpec{Kind: KindPositiveInt}
	nonNegative := &ParameterSpec{Kind: KindNonNegativeInt}
	format := &ParameterSpec{Kind: KindFormat, Pattern: RoundAccuracyPattern}
	boolean := &ParameterSpec{Kind: KindBool}
	text := &ParameterSpec{Kind: KindText}

	return []ParameterSpec{
		{
			Name:        Color,
			Kind:        KindHexColor,
			Entity:      EntityCurve,
			PerEntity:   true,
			Cycle:       Palette,
			Description: "Curve color as #rrggbb",
		},
		{
			Name:        LineStyle,
			Kind:        KindEnum,
			Entity:      EntityCurve,
			PerEntity:   true,
			Enum:        LineStyles,
			Default:     "-",
			Description: "Curve line style; empty string draws no line",
		},
		{
			Name:        MarkerShape,
			Kind:        KindEnum,
			Entity:      EntityCurve,
			PerEntity:   true,
			Enum:        MarkerGlyphs,
			Default:     "o",
			Description: "Marker glyph drawn at every data point",
		},
		{
			Name:        MarkerSize,
			Kind:        KindPositiveInt,
			Entity:      EntityCurve,
			PerEntity:   true,
			Default:     4,
			Description: "Marker size in points",
		},
		{
			Name:        Label,
			Kind:        KindText,
			Entity:      EntityCurve,
			PerEntity:   true,
			Default:     "",
			Description: "Legend label of the curve",
		},
		{
			Name:        AxesFontSize,
			Kind:        KindPair,
			Entity:      EntityAxis,
			PerEntity:   true,
			Element:     positive,
			Default:     []any{10, 10},
			Description: "Tick label font size for the x and y axes",
		},
		{
			Name:        AxesSmallTicks,
			Kind:        KindPair,
			Entity:      EntityAxis,
			PerEntity:   true,
			Element:     nonNegative,
			Default:     []any{0, 0},
			Description: "Minor ticks between major ticks on the x and y axes",
		},
		{
			Name:        AxesRoundAccuracy,
			Kind:        KindPair,
			Entity:      EntityAxis,
			PerEntity:   true,
			Element:     format,
			Default:     []any{"%0.1f", "%0.1f"},
			Description: "Tick label format for the x and y axes",
		},
		{
			Name:        LogarithmicScaling,
			Kind:        KindPair,
			Entity:      EntityAxis,
			PerEntity:   true,
			Element:     boolean,
			Default:     []any{false, false},
			Description: "Logarithmic x and y axes",
		},
		{
			Name:      AxesScaling,
			Kind:      KindScaling,
			Entity:    EntityAxis,
			PerEntity: true,
			Modes:     []string{ScalingNone, ScalingDivide, ScalingMultiply},
			Default: map[string]any{
				"mode":   ScalingNone,
				"ranges": []any{},
			},
			Description: "Axis value transform with [start, stop, count] tick ranges",
		},
		{
			Name:        AxesTitles,
			Kind:        KindPair,
			Entity:      EntityAxis,
			PerEntity:   true,
			Element:     text,
			Default:     []any{"", ""},
			Description: "Titles of the x and y axes",
		},
		{
			Name:        SubplotsTitlesFontSize,
			Kind:        KindPositiveInt,
			Entity:      EntitySubplot,
			PerEntity:   true,
			Default:     12,
			Description: "Subplot title font size",
		},
		{
			Name:        SubplotsTitles,
			Kind:        KindText,
			Entity:      EntitySubplot,
			PerEntity:   true,
			Default:     "",
			Description: "Subplot titles",
		},
		{
			Name:        LegendFontSize,
			Kind:        KindPositiveInt,
			Entity:      EntityFigure,
			Default:     10,
			Description: "Legend font size for the whole figure",
		},
	}
}
