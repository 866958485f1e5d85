package models

import "strings"

const (
	DefaultHabitColor = "#4CAF50"
	DefaultHabitIcon  = "star"
)

type ColorOption struct {
	Name string
	Hex  string
}

type IconOption struct {
	Name  string
	Key   string
	Glyph string
}

var ColorOptions = []ColorOption{
	{"Red", "#F44336"},
	{"Pink", "#E91E63"},
	{"Purple", "#9C27B0"},
	{"Deep Purple", "#673AB7"},
	{"Indigo", "#3F51B5"},
	{"Blue", "#2196F3"},
	{"Light Blue", "#03A9F4"},
	{"Cyan", "#00BCD4"},
	{"Teal", "#009688"},
	{"Green", "#4CAF50"},
	{"Light Green", "#8BC34A"},
	{"Lime", "#CDDC39"},
	{"Yellow", "#FFEB3B"},
	{"Amber", "#FFC107"},
	{"Orange", "#FF9800"},
	{"Deep Orange", "#FF5722"},
	{"Brown", "#795548"},
	{"Grey", "#9E9E9E"},
	{"Blue Grey", "#607D8B"},
}

var IconOptions = []IconOption{
	{"Star", "star", "★"},
	{"Heart", "heart", "♥"},
	{"Running", "run", "🏃"},
	{"Swimming", "swim", "🏊"},
	{"Cycling", "bike", "🚲"},
	{"Gym", "gym", "🏋"},
	{"Yoga", "yoga", "🧘"},
	{"Reading", "book", "📖"},
	{"Writing", "pencil", "✎"},
	{"Coding", "code", "⌨"},
	{"Music", "music", "♪"},
	{"Art", "art", "🎨"},
	{"Cooking", "cook", "🍳"},
	{"Meditation", "mind", "☯"},
	{"Language", "language", "💬"},
	{"Photography", "camera", "📷"},
	{"Gaming", "game", "🎮"},
	{"Gardening", "leaf", "🌿"},
	{"Film", "film", "🎬"},
	{"Learning", "learn", "🎓"},
	{"Finances", "money", "$"},
	{"Walking", "walk", "🚶"},
	{"Sleep", "sleep", "☾"},
	{"Water", "water", "💧"},
}

// LookupColor resolves a color name or hex value to a hex value.
func LookupColor(value string) (string, bool) {
	for _, c := range ColorOptions {
		if strings.EqualFold(c.Name, value) || strings.EqualFold(c.Hex, value) {
			return c.Hex, true
		}
	}
	return "", false
}

// LookupIcon resolves an icon key or display name.
func LookupIcon(value string) (IconOption, bool) {
	for _, i := range IconOptions {
		if strings.EqualFold(i.Key, value) || strings.EqualFold(i.Name, value) {
			return i, true
		}
	}
	return IconOption{}, false
}

// Glyph returns the display glyph for a habit icon, falling back to the default icon.
func (h Habit) Glyph() string {
	if icon, ok := LookupIcon(h.Icon); ok {
		return icon.Glyph
	}
	icon, _ := LookupIcon(DefaultHabitIcon)
	return icon.Glyph
}

// ColorHex returns the habit color, falling back to the default color.
func (h Habit) ColorHex() string {
	if h.Color == "" {
		return DefaultHabitColor
	}
	return h.Color
}
