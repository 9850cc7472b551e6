package ctdf

type Deviation struct {
	Message         string   `json:"message" groups:"basic,full"`
	Consequence     string   `json:"consequence" groups:"basic,full"`
	ImportanceLevel int      `json:"importance_level,omitempty" groups:"full"`
	AffectedLines   []string `json:"affected_lines,omitempty" groups:"basic,full"`
}

const DefaultDeviationConsequence = "ALERT"

func (d Deviation) GetConsequence() string {
	if d.Consequence == "" {
		return DefaultDeviationConsequence
	}

	return d.Consequence
}
