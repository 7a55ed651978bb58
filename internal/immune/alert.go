package immune

// AlertLevel grades how far a reading sits from the nearest memory cell.
type AlertLevel int

const (
	LevelNormal AlertLevel = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelCritical
)

var levelNames = [...]string{"normal", "low", "medium", "high", "critical"}

func (l AlertLevel) String() string {
	if l < LevelNormal || l > LevelCritical {
		return "unknown"
	}
	return levelNames[l]
}

// LevelFor maps a detector distance to an alert level. Bounds are inclusive.
func LevelFor(distance float64) AlertLevel {
	switch {
	case distance <= 0.3:
		return LevelNormal
	case distance <= 0.6:
		return LevelLow
	case distance <= 0.9:
		return LevelMedium
	case distance <= 1.2:
		return LevelHigh
	default:
		return LevelCritical
	}
}
