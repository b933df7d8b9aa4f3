package format

import "math"

// SaleTemplate describes a Sale in one line.
const SaleTemplate = "{person} bought {num_items} item(s) at a price of {price} each for a total of {total:.2f}"

// Sale is a single purchase record.
type Sale struct {
	Person   string
	Price    float64
	NumItems int
}

// Total returns Price times NumItems rounded to cents.
func (s Sale) Total() float64 {
	return math.Round(s.Price*float64(s.NumItems)*100) / 100
}

// Fields returns the sale as template fields.
func (s Sale) Fields() map[string]interface{} {
	return map[string]interface{}{
		"person":    s.Person,
		"price":     s.Price,
		"num_items": s.NumItems,
		"total":     s.Price * float64(s.NumItems),
	}
}

// Describe renders the sale with SaleTemplate.
func (s Sale) Describe() (string, error) {
	return Format(SaleTemplate, s.Fields())
}
