package record

// Fine is a penalty issued against a premises
type Fine struct {
	Base
	Address string  `json:"address,omitempty"`
	State   string  `json:"state,omitempty"`
	Price   float64 `json:"price"`
	Reason  string  `json:"reason,omitempty"`
	Paid    bool    `json:"paid"`
}
