package models

import (
	"encoding/json"
	"fmt"
)

// BackgroundKind tags the two variants a theme background can take.
type BackgroundKind string

const (
	// BackgroundSolid is a literal CSS color value, e.g. "#111111".
	BackgroundSolid BackgroundKind = "solid"
	// BackgroundGradient is a utility-class token, e.g.
	// "bg-gradient-to-br from-purple-100 to-blue-100".
	BackgroundGradient BackgroundKind = "gradient"
)

// Background is an explicit tagged variant for theme backgrounds, so
// renderers never have to sniff string prefixes to tell a color from a
// gradient class.
type Background struct {
	Kind  BackgroundKind `json:"kind"`
	Value string         `json:"value"`
}

// SolidColor constructs a solid-color background.
func SolidColor(value string) Background {
	return Background{Kind: BackgroundSolid, Value: value}
}

// Gradient constructs a gradient-class background.
func Gradient(token string) Background {
	return Background{Kind: BackgroundGradient, Value: token}
}

// IsGradient reports whether the background is the gradient variant.
func (b Background) IsGradient() bool {
	return b.Kind == BackgroundGradient
}

// UnmarshalJSON validates the kind tag on the way in so a malformed
// document cannot smuggle an untagged background into the renderer.
func (b *Background) UnmarshalJSON(data []byte) error {
	type alias Background
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	switch a.Kind {
	case BackgroundSolid, BackgroundGradient:
	default:
		return fmt.Errorf("unknown background kind %q", a.Kind)
	}
	*b = Background(a)
	return nil
}

// Theme is a named preset of visual styling choices. Themes are
// immutable and drawn from the fixed catalog; a profile embeds its
// selected theme by value, not by catalog lookup at render time.
type Theme struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Background  Background `json:"background"`
	ButtonStyle string     `json:"button_style"`
	FontFamily  string     `json:"font_family"`
}

// Themes is the fixed catalog of presets offered by the theme selector.
var Themes = []Theme{
	{
		ID:          "minimal",
		Name:        "Minimal",
		Background:  SolidColor("#ffffff"),
		ButtonStyle: "rounded-lg border border-gray-200 bg-white hover:bg-gray-50",
		FontFamily:  "font-sans",
	},
	{
		ID:          "dark",
		Name:        "Dark",
		Background:  SolidColor("#111111"),
		ButtonStyle: "rounded-lg border border-gray-700 bg-gray-800 text-white hover:bg-gray-700",
		FontFamily:  "font-sans",
	},
	{
		ID:          "gradient",
		Name:        "Gradient",
		Background:  Gradient("bg-gradient-to-br from-purple-100 to-blue-100"),
		ButtonStyle: "rounded-lg border border-purple-100 bg-white/80 hover:bg-white shadow-sm",
		FontFamily:  "font-sans",
	},
	{
		ID:          "glassmorphism",
		Name:        "Glass",
		Background:  SolidColor("#f8fafc"),
		ButtonStyle: "rounded-lg glass hover:bg-white/30 shadow-sm",
		FontFamily:  "font-sans",
	},
	{
		ID:          "pastel",
		Name:        "Pastel",
		Background:  SolidColor("#fef2f2"),
		ButtonStyle: "rounded-lg bg-white border border-pink-100 hover:bg-pink-50 shadow-sm",
		FontFamily:  "font-sans",
	},
	{
		ID:          "neon",
		Name:        "Neon",
		Background:  SolidColor("#0f172a"),
		ButtonStyle: "rounded-lg bg-black/30 border border-purple-500 text-white hover:bg-black/50 shadow-[0_0_15px_rgba(168,85,247,0.5)]",
		FontFamily:  "font-sans",
	},
	{
		ID:          "sunset",
		Name:        "Sunset",
		Background:  Gradient("bg-gradient-to-br from-orange-100 to-red-100"),
		ButtonStyle: "rounded-lg bg-white/80 border border-orange-200 hover:bg-white shadow-sm",
		FontFamily:  "font-sans",
	},
	{
		ID:          "ocean",
		Name:        "Ocean",
		Background:  Gradient("bg-gradient-to-br from-blue-100 to-cyan-100"),
		ButtonStyle: "rounded-lg bg-white/80 border border-blue-200 hover:bg-white shadow-sm",
		FontFamily:  "font-sans",
	},
	{
		ID:          "forest",
		Name:        "Forest",
		Background:  SolidColor("#f0fdf4"),
		ButtonStyle: "rounded-lg bg-white border border-green-100 hover:bg-green-50 shadow-sm",
		FontFamily:  "font-sans",
	},
	{
		ID:          "midnight",
		Name:        "Midnight",
		Background:  SolidColor("#020617"),
		ButtonStyle: "rounded-lg bg-slate-800 border border-slate-700 text-white hover:bg-slate-700 shadow-md",
		FontFamily:  "font-sans",
	},
}

// Dark reports whether the preset sits on a dark background, so pages
// can switch to light text.
func (t Theme) Dark() bool {
	switch t.ID {
	case "dark", "neon", "midnight":
		return true
	}
	return false
}

// DefaultTheme returns the catalog's first preset.
func DefaultTheme() Theme {
	return Themes[0]
}

// ThemeByID looks up a catalog preset by id. Returns the preset and
// true, or the default theme and false for unknown ids.
func ThemeByID(id string) (Theme, bool) {
	for _, t := range Themes {
		if t.ID == id {
			return t, true
		}
	}
	return DefaultTheme(), false
}
