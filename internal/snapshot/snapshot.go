package snapshot

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/tourpricing/internal/pricing"
)

// Field identifiers of the pricing form. They double as snapshot keys.
const (
	FieldTargetPeople    = "targetPeople"
	FieldEarlyCount      = "earlyCount"
	FieldStudentCount    = "studentCount"
	FieldDesiredPeople   = "desiredPeople"
	FieldPriceNormal     = "priceNormal"
	FieldEarlyDiscount   = "earlyDiscount"
	FieldStudentBuffer   = "studentBuffer"
	FieldPriceEnding     = "priceEnding"
	FieldTargetGM        = "targetGM"
	FieldCostJapan       = "costJapan"
	FieldCostFlight      = "costFlight"
	FieldCostInsurance   = "costInsurance"
	FieldCostSim         = "costSim"
	FieldCostBook        = "costBook"
	FieldBigBusExtraPer  = "bigBusExtraPer"
	FieldCostExtraPer    = "costExtraPer"
	FieldAdCostPerSignup = "adCostPerSignup"
	FieldFixedOther      = "fixedOther"
	FieldCardCount       = "cardCount"
	FieldCardFeeRate     = "cardFeeRate"
	FieldRangeFrom       = "rangeFrom"
	FieldRangeTo         = "rangeTo"
	FieldTicketMode      = "ticketMode"
)

// Fields lists every known field identifier in form order.
var Fields = []string{
	FieldTargetPeople, FieldEarlyCount, FieldStudentCount, FieldDesiredPeople,
	FieldPriceNormal, FieldEarlyDiscount, FieldStudentBuffer, FieldPriceEnding, FieldTargetGM,
	FieldCostJapan, FieldCostFlight, FieldCostInsurance, FieldCostSim, FieldCostBook,
	FieldBigBusExtraPer, FieldCostExtraPer,
	FieldAdCostPerSignup, FieldFixedOther,
	FieldCardCount, FieldCardFeeRate,
	FieldRangeFrom, FieldRangeTo,
	FieldTicketMode,
}

var known = func() map[string]bool {
	m := make(map[string]bool, len(Fields))
	for _, f := range Fields {
		m[f] = true
	}
	return m
}()

// IsField reports whether id is a known field identifier.
func IsField(id string) bool {
	return known[id]
}

// Snapshot is the raw value of every pricing form field, keyed by field identifier.
type Snapshot map[string]string

// Defaults returns the values restored by a reset.
func Defaults() Snapshot {
	return Snapshot{
		FieldTargetPeople:    "20",
		FieldEarlyCount:      "6",
		FieldStudentCount:    "4",
		FieldDesiredPeople:   "15",
		FieldPriceNormal:     "45,800",
		FieldEarlyDiscount:   "2,000",
		FieldStudentBuffer:   "2,000",
		FieldPriceEnding:     "800",
		FieldTargetGM:        "20",
		FieldCostJapan:       "25,000",
		FieldCostFlight:      "10,500",
		FieldCostInsurance:   "600",
		FieldCostSim:         "280",
		FieldCostBook:        "100",
		FieldBigBusExtraPer:  "0",
		FieldCostExtraPer:    "0",
		FieldAdCostPerSignup: "2,500",
		FieldFixedOther:      "0",
		FieldCardCount:       "2",
		FieldCardFeeRate:     "2.4",
		FieldRangeFrom:       "10",
		FieldRangeTo:         "28",
		FieldTicketMode:      string(pricing.TicketInclude),
	}
}

// Clone returns an independent copy of s.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns base with every known field of overlay written over it.
// Unknown identifiers in overlay are dropped.
func Merge(base, overlay Snapshot) Snapshot {
	out := base.Clone()
	for k, v := range overlay {
		if IsField(k) {
			out[k] = v
		}
	}
	return out
}

// fallbackFields are read from Defaults when left blank.
var fallbackFields = map[string]bool{
	FieldTargetPeople:  true,
	FieldDesiredPeople: true,
	FieldTargetGM:      true,
	FieldRangeFrom:     true,
	FieldRangeTo:       true,
}

// value returns the raw value of id, or its default when id is a fallback
// field and the value is blank.
func (s Snapshot) value(id string) string {
	v := s[id]
	if fallbackFields[id] && strings.TrimSpace(v) == "" {
		return Defaults()[id]
	}
	return v
}

// Inputs converts the raw field values into model inputs.
func (s Snapshot) Inputs() pricing.Inputs {
	return pricing.Inputs{
		TargetPeople:  ParseCount(s.value(FieldTargetPeople)),
		EarlyCount:    ParseCount(s[FieldEarlyCount]),
		StudentCount:  ParseCount(s[FieldStudentCount]),
		DesiredPeople: ParseCount(s.value(FieldDesiredPeople)),

		NormalPrice:   ParseMoney(s[FieldPriceNormal]),
		EarlyDiscount: ParseMoney(s[FieldEarlyDiscount]),
		StudentBuffer: ParseMoney(s[FieldStudentBuffer]),
		PriceEnding:   ParsePriceEnding(s[FieldPriceEnding]),

		TargetGrossMarginRate: ParsePercent(s.value(FieldTargetGM)),

		Costs: pricing.Costs{
			JapanLand:       ParseMoney(s[FieldCostJapan]),
			Flight:          ParseMoney(s[FieldCostFlight]),
			Insurance:       ParseMoney(s[FieldCostInsurance]),
			SIMCard:         ParseMoney(s[FieldCostSim]),
			Handbook:        ParseMoney(s[FieldCostBook]),
			BigBusSurcharge: ParseMoney(s[FieldBigBusExtraPer]),
			OtherExtra:      ParseMoney(s[FieldCostExtraPer]),
		},

		AdCostPerSignup: ParseMoney(s[FieldAdCostPerSignup]),
		FixedOtherCost:  ParseMoney(s[FieldFixedOther]),

		CardSettlementCount: ParseCount(s[FieldCardCount]),
		CardFeeRate:         ParsePercent(s[FieldCardFeeRate]),

		TicketMode: ParseTicketMode(s[FieldTicketMode]),
	}
}

// Range returns the normalized margin table range.
func (s Snapshot) Range() (int, int) {
	return pricing.MarginRange(ParseCount(s.value(FieldRangeFrom)), ParseCount(s.value(FieldRangeTo)))
}

// FromForm collects the known fields present in form values.
func FromForm(form url.Values) Snapshot {
	out := make(Snapshot)
	for _, f := range Fields {
		if vs, ok := form[f]; ok && len(vs) > 0 {
			out[f] = vs[0]
		}
	}
	return out
}

// FromJSON decodes a flat JSON object. Values may be strings, numbers or
// booleans; nested values and nulls are skipped along with unknown fields.
func FromJSON(data []byte) (Snapshot, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot json: %w", err)
	}
	return fromValues(raw), nil
}

func fromValues(raw map[string]any) Snapshot {
	out := make(Snapshot, len(raw))
	for k, v := range raw {
		if !IsField(k) {
			continue
		}
		if s, ok := stringify(v); ok {
			out[k] = s
		}
	}
	return out
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
