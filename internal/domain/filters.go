package domain

import (
	"fmt"
	"strings"
)

// DisplayOrder is the sort order of photo search results.
type DisplayOrder string

// ContentFilter is the safe-search level of photo search results.
type ContentFilter string

// PhotoColor restricts photo search results to a color family.
type PhotoColor string

// Orientation restricts photo search results to an aspect class.
type Orientation string

const (
	OrderRelevant DisplayOrder = "relevant"
	OrderLatest   DisplayOrder = "latest"
)

const (
	ContentLow  ContentFilter = "low"
	ContentHigh ContentFilter = "high"
)

// ColorAny means no color restriction; it is never sent to the API.
const (
	ColorAny           PhotoColor = ""
	ColorBlackAndWhite PhotoColor = "black_and_white"
	ColorBlack         PhotoColor = "black"
	ColorWhite         PhotoColor = "white"
	ColorYellow        PhotoColor = "yellow"
	ColorOrange        PhotoColor = "orange"
	ColorRed           PhotoColor = "red"
	ColorPurple        PhotoColor = "purple"
	ColorMagenta       PhotoColor = "magenta"
	ColorGreen         PhotoColor = "green"
	ColorTeal          PhotoColor = "teal"
	ColorBlue          PhotoColor = "blue"
)

// OrientationAny means no orientation restriction; it is never sent to the API.
const (
	OrientationAny       Orientation = ""
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
	OrientationSquarish  Orientation = "squarish"
)

// AllDisplayOrders lists the selectable display orders in UI order.
var AllDisplayOrders = []DisplayOrder{OrderRelevant, OrderLatest}

// AllContentFilters lists the selectable content filters in UI order.
var AllContentFilters = []ContentFilter{ContentLow, ContentHigh}

// AllColors lists the selectable colors in UI order.
var AllColors = []PhotoColor{
	ColorAny, ColorBlackAndWhite, ColorBlack, ColorWhite, ColorYellow, ColorOrange,
	ColorRed, ColorPurple, ColorMagenta, ColorGreen, ColorTeal, ColorBlue,
}

// AllOrientations lists the selectable orientations in UI order.
var AllOrientations = []Orientation{
	OrientationAny, OrientationLandscape, OrientationPortrait, OrientationSquarish,
}

// SearchFilters is the immutable set of photo search options.
// It is replaced wholesale, never mutated in place, so it is comparable by value.
type SearchFilters struct {
	Order         DisplayOrder
	ContentFilter ContentFilter
	Color         PhotoColor
	Orientation   Orientation
}

// DefaultSearchFilters returns the filters a search starts with.
func DefaultSearchFilters() SearchFilters {
	return SearchFilters{
		Order:         OrderRelevant,
		ContentFilter: ContentLow,
		Color:         ColorAny,
		Orientation:   OrientationAny,
	}
}

// Label returns a short human-readable name for the color.
func (c PhotoColor) Label() string {
	if c == ColorAny {
		return "any"
	}
	return strings.ReplaceAll(string(c), "_", " ")
}

// Label returns a short human-readable name for the orientation.
func (o Orientation) Label() string {
	if o == OrientationAny {
		return "any"
	}
	return string(o)
}

// ParseDisplayOrder parses a display order name (case-insensitive).
func ParseDisplayOrder(s string) (DisplayOrder, error) {
	for _, o := range AllDisplayOrders {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown display order %q", s)
}

// ParseContentFilter parses a content filter name (case-insensitive).
func ParseContentFilter(s string) (ContentFilter, error) {
	for _, f := range AllContentFilters {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown content filter %q", s)
}

// ParsePhotoColor parses a color name; "" and "any" mean ColorAny.
func ParsePhotoColor(s string) (PhotoColor, error) {
	if s == "" || strings.EqualFold(s, "any") {
		return ColorAny, nil
	}
	norm := strings.ReplaceAll(strings.ToLower(s), "-", "_")
	for _, c := range AllColors {
		if norm == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown color %q", s)
}

// ParseOrientation parses an orientation name; "" and "any" mean OrientationAny.
func ParseOrientation(s string) (Orientation, error) {
	if s == "" || strings.EqualFold(s, "any") {
		return OrientationAny, nil
	}
	for _, o := range AllOrientations {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown orientation %q", s)
}
