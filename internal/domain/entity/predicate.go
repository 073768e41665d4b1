package entity

type Condition string

const (
	ConditionEqual Condition = "=="
	ConditionGTE   Condition = ">="
	ConditionLTE   Condition = "<="
	ConditionIn    Condition = "in"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionEqual, ConditionGTE, ConditionLTE, ConditionIn:
		return true
	}
	return false
}

// Predicate is one structured filter applied to a listing query.
type Predicate struct {
	Field     string      `json:"field"`
	Condition Condition   `json:"condition"`
	Value     interface{} `json:"value"`
}
