package domain

// Score points per signal.
const (
	NamePoints       = 20
	SymbolPoints     = 20
	URIPoints        = 30
	ReputationPoints = 30
	MaxScore         = NamePoints + SymbolPoints + URIPoints + ReputationPoints
)

// Score is a confidence score and the signals that produced it.
type Score struct {
	Name       bool
	Symbol     bool
	URI        bool
	Reputation bool
	Total      int
}
