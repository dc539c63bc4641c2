package crafting

import "fmt"

// Quality is the ordered scale applied to crafted items. Comparisons use the
// numeric order; names are used in catalogs, snapshots and command output.
type Quality int

const (
	QualityMakeshift Quality = iota
	QualityCrude
	QualityCommon
	QualityUncommon
	QualityRare
	QualityEpic
	QualityLegendary
)

// BaselineQuality is the implicit quality of Simple instances, which carry no
// quality of their own.
const BaselineQuality = QualityCommon

var qualityNames = map[Quality]string{
	QualityMakeshift: "makeshift",
	QualityCrude:     "crude",
	QualityCommon:    "common",
	QualityUncommon:  "uncommon",
	QualityRare:      "rare",
	QualityEpic:      "epic",
	QualityLegendary: "legendary",
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("quality(%d)", int(q))
}

func ParseQuality(s string) (Quality, error) {
	for q, name := range qualityNames {
		if name == s {
			return q, nil
		}
	}
	return QualityMakeshift, fmt.Errorf("unknown quality: %q", s)
}

func (q Quality) MarshalText() ([]byte, error) {
	if _, ok := qualityNames[q]; !ok {
		return nil, fmt.Errorf("quality out of range: %d", int(q))
	}
	return []byte(q.String()), nil
}

func (q *Quality) UnmarshalText(text []byte) error {
	parsed, err := ParseQuality(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// clampQuality pins a computed score to the valid enum range.
func clampQuality(v int) Quality {
	if v < int(QualityMakeshift) {
		return QualityMakeshift
	}
	if v > int(QualityLegendary) {
		return QualityLegendary
	}
	return Quality(v)
}
