package output

import (
	"time"

	"tariffcheck/core/engine"
	"tariffcheck/core/explanation"
)

// CheckResponse is the presentation-layer contract. Money is rounded to cents and
// rates to four places; numbers are emitted as JSON numbers.
type CheckResponse struct {
	CheckID           string   `json:"checkId"`
	IsSubjectToTariff bool     `json:"isSubjectToTariff"`
	TariffRate        *float64 `json:"tariffRate,omitempty"`
	FlatFeeAmount     *float64 `json:"flatFeeAmount,omitempty"`
	PreTariffPrice    float64  `json:"preTariffPrice"`
	TariffAmount      float64  `json:"tariffAmount"`
	Message           string   `json:"message"`
	IsApproximate     bool     `json:"isApproximate"`

	Country     string                   `json:"country"`
	Category    string                   `json:"category"`
	Channel     string                   `json:"channel"`
	RuleID      string                   `json:"ruleId,omitempty"`
	Rationale   string                   `json:"rationale"`
	Caveats     []string                 `json:"caveats,omitempty"`
	Explanation *explanation.Explanation `json:"explanation,omitempty"`
	CheckedAt   string                   `json:"checkedAt"`
}

// NewCheckResponse converts an engine result into the response contract
func NewCheckResponse(r *engine.Result) *CheckResponse {
	resp := &CheckResponse{
		CheckID:           r.CheckID,
		IsSubjectToTariff: r.IsSubjectToTariff,
		PreTariffPrice:    r.PreTariffPrice.Round(2).InexactFloat64(),
		TariffAmount:      r.TariffAmount.Round(2).InexactFloat64(),
		Message:           r.Message,
		IsApproximate:     r.IsApproximate,
		Country:           string(r.Country),
		Category:          string(r.Category),
		Channel:           string(r.Channel),
		RuleID:            r.Policy.RuleID,
		Rationale:         r.Policy.Rationale,
		Caveats:           r.Caveats,
		Explanation:       r.Explanation,
		CheckedAt:         r.CheckedAt.UTC().Format(time.RFC3339),
	}
	if r.TariffRate != nil {
		v := r.TariffRate.Round(4).InexactFloat64()
		resp.TariffRate = &v
	}
	if r.FlatFeeAmount != nil {
		v := r.FlatFeeAmount.Round(2).InexactFloat64()
		resp.FlatFeeAmount = &v
	}
	return resp
}
