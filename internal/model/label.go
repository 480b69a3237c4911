package model

import (
	"fmt"
	"strconv"
)

// Label is the category index assigned by the prediction service.
type Label int

// Known labels. The numbering is part of the wire contract.
const (
	LabelNormal Label = iota
	LabelFraud
	LabelPromo
)

// LabelInfo holds the display data for a label.
type LabelInfo struct {
	Name        string
	Description string
	Icon        string
}

var labelTable = [...]LabelInfo{
	LabelNormal: {
		Name:        "Normal",
		Description: "Ordinary message from a personal contact",
		Icon:        "✓",
	},
	LabelFraud: {
		Name:        "Fraud/Penipuan",
		Description: "Fraud or scam message. Be careful!",
		Icon:        "⚠",
	},
	LabelPromo: {
		Name:        "Promo",
		Description: "Promotional message from an operator or brand",
		Icon:        "🏷",
	},
}

// Labels returns every known label in index order.
func Labels() []Label {
	return []Label{LabelNormal, LabelFraud, LabelPromo}
}

// Valid reports whether l is part of the taxonomy.
func (l Label) Valid() bool {
	return l >= LabelNormal && int(l) < len(labelTable)
}

// Info returns the display data for l, or an error for unknown indices.
func (l Label) Info() (LabelInfo, error) {
	if !l.Valid() {
		return LabelInfo{}, fmt.Errorf("%w: %d", ErrUnknownLabel, int(l))
	}
	return labelTable[l], nil
}

// Name returns the wire name of the label.
func (l Label) Name() string {
	if !l.Valid() {
		return ""
	}
	return labelTable[l].Name
}

// Description returns a human readable description of the label.
func (l Label) Description() string {
	if !l.Valid() {
		return ""
	}
	return labelTable[l].Description
}

// Icon returns a short glyph for the label.
func (l Label) Icon() string {
	if !l.Valid() {
		return "?"
	}
	return labelTable[l].Icon
}

func (l Label) String() string {
	if name := l.Name(); name != "" {
		return name
	}
	return "Label(" + strconv.Itoa(int(l)) + ")"
}

// ParseLabelName maps a wire name such as "Fraud/Penipuan" back to its label.
func ParseLabelName(name string) (Label, error) {
	for _, l := range Labels() {
		if labelTable[l].Name == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
}
