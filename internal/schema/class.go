package schema

// Class is the travel class. Business is the baseline level and has no
// indicator column of its own.
type Class int

const (
	ClassBusiness Class = iota
	ClassEco
	ClassEcoPlus
)

// ParseClass maps the raw label. Anything that is not "Eco" or "Eco Plus"
// falls back to Business.
func ParseClass(raw string) Class {
	switch raw {
	case "Eco":
		return ClassEco
	case "Eco Plus":
		return ClassEcoPlus
	default:
		return ClassBusiness
	}
}

// Indicators returns the (Class_Eco, Class_Eco Plus) one-hot pair.
func (c Class) Indicators() (eco, ecoPlus float64) {
	switch c {
	case ClassEco:
		return 1, 0
	case ClassEcoPlus:
		return 0, 1
	default:
		return 0, 0
	}
}

func (c Class) String() string {
	switch c {
	case ClassEco:
		return "Eco"
	case ClassEcoPlus:
		return "Eco Plus"
	default:
		return "Business"
	}
}
