package engine

import (
	"fmt"
	"strconv"
	"strings"

	"freight-rating/internal/features/rating/domain"
)

// Validate checks a shipment against the channel's constraints and returns
// every violation in check order. A bound of zero is not checked.
func Validate(s *domain.Shipment, c *domain.Channel) []string {
	if s == nil || c == nil {
		return nil
	}
	var v []string
	k := c.Constraints

	pieces := s.Pieces()
	if k.MinPieces > 0 && pieces < k.MinPieces {
		v = append(v, fmt.Sprintf("piece count %d is below minimum %d", pieces, k.MinPieces))
	}
	if k.MaxPieces > 0 && pieces > k.MaxPieces {
		v = append(v, fmt.Sprintf("piece count %d exceeds maximum %d", pieces, k.MaxPieces))
	}

	if k.MinBoxRealWeight > 0 || k.MaxBoxRealWeight > 0 {
		v = append(v, boxWeightViolations(s, k)...)
	}

	weight := s.TotalWeight()
	if k.MinTicketRealWeight > 0 && weight < k.MinTicketRealWeight {
		v = append(v, fmt.Sprintf("shipment weight %s kg is below minimum %s kg", num(weight), num(k.MinTicketRealWeight)))
	}
	if k.MaxTicketRealWeight > 0 && weight > k.MaxTicketRealWeight {
		v = append(v, fmt.Sprintf("shipment weight %s kg exceeds maximum %s kg", num(weight), num(k.MaxTicketRealWeight)))
	}

	if k.MinBoxAvgWeight > 0 && len(s.Boxes) > 0 {
		avg := weight / float64(len(s.Boxes))
		if avg < k.MinBoxAvgWeight {
			v = append(v, fmt.Sprintf("average box weight %.2f kg is below minimum %s kg", avg, num(k.MinBoxAvgWeight)))
		}
	}

	if s.ChargeWeight > 0 {
		if k.MinBoxChargeWeight > 0 && s.ChargeWeight < k.MinBoxChargeWeight {
			v = append(v, fmt.Sprintf("charge weight %s kg is below box minimum %s kg", num(s.ChargeWeight), num(k.MinBoxChargeWeight)))
		}
		if k.MaxBoxChargeWeight > 0 && s.ChargeWeight > k.MaxBoxChargeWeight {
			v = append(v, fmt.Sprintf("charge weight %s kg exceeds box maximum %s kg", num(s.ChargeWeight), num(k.MaxBoxChargeWeight)))
		}
	}

	if k.RequirePhone && strings.TrimSpace(s.Phone) == "" {
		v = append(v, "phone is required")
	}
	if k.RequireEmail && strings.TrimSpace(s.Email) == "" {
		v = append(v, "email is required")
	}
	if k.RequireWeight && weight <= 0 {
		v = append(v, "weight is required")
	}
	if k.RequireSize && !hasSize(s) {
		v = append(v, "dimensions are required")
	}

	if k.MinDeclareValue > 0 && s.DeclareValue < k.MinDeclareValue {
		v = append(v, fmt.Sprintf("declared value %s is below minimum %s", num(s.DeclareValue), num(k.MinDeclareValue)))
	}
	if k.MaxDeclareValue > 0 && s.DeclareValue > k.MaxDeclareValue {
		v = append(v, fmt.Sprintf("declared value %s exceeds maximum %s", num(s.DeclareValue), num(k.MaxDeclareValue)))
	}

	return v
}

// boxWeightViolations checks each box, or the whole shipment when no boxes are listed.
func boxWeightViolations(s *domain.Shipment, k domain.Constraints) []string {
	type weighed struct {
		label  string
		weight float64
	}

	var items []weighed
	if len(s.Boxes) == 0 {
		items = append(items, weighed{label: "shipment", weight: s.Weight})
	}
	for i, b := range s.Boxes {
		label := b.Code
		if label == "" {
			label = "#" + strconv.Itoa(i+1)
		}
		items = append(items, weighed{label: "box " + label, weight: b.Weight})
	}

	var v []string
	for _, it := range items {
		if k.MinBoxRealWeight > 0 && it.weight < k.MinBoxRealWeight {
			v = append(v, fmt.Sprintf("%s real weight %s kg is below minimum %s kg", it.label, num(it.weight), num(k.MinBoxRealWeight)))
		}
		if k.MaxBoxRealWeight > 0 && it.weight > k.MaxBoxRealWeight {
			v = append(v, fmt.Sprintf("%s real weight %s kg exceeds maximum %s kg", it.label, num(it.weight), num(k.MaxBoxRealWeight)))
		}
	}
	return v
}

func hasSize(s *domain.Shipment) bool {
	if s.Length > 0 && s.Width > 0 && s.Height > 0 {
		return true
	}
	if len(s.Boxes) == 0 {
		return false
	}
	for _, b := range s.Boxes {
		if !b.HasSize() {
			return false
		}
	}
	return true
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
