package branches

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// CustomKey is the option attendees pick when their branch is not listed.
	CustomKey = "custom"
	// CustomLabel is shown next to CustomKey.
	CustomLabel = "הסניף שלי לא מופיע ברשימה"
	// NoShuttleCity has no organized transportation to the event.
	NoShuttleCity = "ב״ש"
	// NoShuttleNotice is shown when a NoShuttleCity branch is selected.
	NoShuttleNotice = "שים לב: מסניפי באר שבע לא יוצאות הסעות מאורגנות לאירוע."
)

var (
	ErrUnknownBranch      = errors.New("unknown branch")
	ErrCustomBranchNeeded = errors.New("custom branch name is required")
)

type Branch struct {
	Key   string `json:"value"`
	Label string `json:"label"`
	City  string `json:"city,omitempty"`
}

// DisplayName renders "label (city)" for branches that belong to a city.
func (b Branch) DisplayName() string {
	if b.City == "" {
		return b.Label
	}
	return b.Label + " (" + b.City + ")"
}

type Group struct {
	Label   string   `json:"label"`
	Options []Branch `json:"options"`
}

// Selection is a resolved branch choice ready to be stored on an RSVP.
type Selection struct {
	Value       string
	DisplayName string
	Custom      bool
	NoShuttle   bool
}

func All() []Branch {
	out := make([]Branch, len(directory))
	copy(out, directory)
	return out
}

func Find(key string) (Branch, bool) {
	for _, b := range directory {
		if b.Key == key {
			return b, true
		}
	}
	return Branch{}, false
}

// IsNoShuttle reports whether key names a branch in the group without shuttles.
func IsNoShuttle(key string) bool {
	b, ok := Find(key)
	return ok && b.City == NoShuttleCity
}

// DisplayNameFor falls back to the raw value for custom or removed branches.
func DisplayNameFor(key string) string {
	if b, ok := Find(key); ok {
		return b.DisplayName()
	}
	return key
}

// Resolve turns a form choice into the stored value. customName is only read
// when key is CustomKey and is expected to be sanitized by the caller.
func Resolve(key, customName string) (Selection, error) {
	key = strings.TrimSpace(key)

	if key == CustomKey {
		name := strings.TrimSpace(customName)
		if name == "" {
			return Selection{}, ErrCustomBranchNeeded
		}
		return Selection{Value: name, DisplayName: name, Custom: true}, nil
	}

	b, ok := Find(key)
	if !ok {
		return Selection{}, ErrUnknownBranch
	}

	return Selection{
		Value:       b.Key,
		DisplayName: b.DisplayName(),
		NoShuttle:   b.City == NoShuttleCity,
	}, nil
}

// Groups clusters branches by city; a branch without a city forms its own
// group. Groups and their options are sorted with the Hebrew collator.
func Groups() []Group {
	collator := collate.New(language.Hebrew)

	index := map[string]int{}
	var groups []Group

	for _, b := range directory {
		label := b.City
		if label == "" {
			groups = append(groups, Group{Label: b.Label, Options: []Branch{b}})
			continue
		}

		if i, ok := index[label]; ok {
			groups[i].Options = append(groups[i].Options, b)
			continue
		}

		index[label] = len(groups)
		groups = append(groups, Group{Label: label, Options: []Branch{b}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return collator.CompareString(groups[i].Label, groups[j].Label) < 0
	})

	for _, g := range groups {
		options := g.Options
		sort.SliceStable(options, func(i, j int) bool {
			return collator.CompareString(options[i].Label, options[j].Label) < 0
		})
	}

	return groups
}
