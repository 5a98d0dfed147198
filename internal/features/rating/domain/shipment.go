package domain

// Box is one physical carton of a shipment. Dimensions are centimetres,
// weights kilograms. Missing values are zero.
type Box struct {
	Code         string  `json:"code,omitempty"`
	Weight       float64 `json:"weight"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	DeclareValue float64 `json:"declareValue,omitempty"`
}

// LongestSide is the largest of the three dimensions.
func (b Box) LongestSide() float64 {
	return max(b.Length, b.Width, b.Height)
}

// SecondLongestSide is the middle dimension.
func (b Box) SecondLongestSide() float64 {
	l, w, h := b.Length, b.Width, b.Height
	return l + w + h - max(l, w, h) - min(l, w, h)
}

// DimensionSum is length + width + height.
func (b Box) DimensionSum() float64 {
	return b.Length + b.Width + b.Height
}

// HasSize reports whether all three dimensions are filled in.
func (b Box) HasSize() bool {
	return b.Length > 0 && b.Width > 0 && b.Height > 0
}

// Shipment is the read-only rating input (a waybill and its boxes).
type Shipment struct {
	ID           string  `json:"id,omitempty"`
	Weight       float64 `json:"weight"`
	ChargeWeight float64 `json:"chargeWeight,omitempty"`
	BoxCount     int     `json:"boxCount"`
	DeclareValue float64 `json:"declareValue"`
	Phone        string  `json:"phone,omitempty"`
	Email        string  `json:"email,omitempty"`
	Length       float64 `json:"length,omitempty"`
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	Boxes        []Box   `json:"boxes"`
}

// TotalWeight is the declared shipment weight, or the sum of box weights when unset.
func (s *Shipment) TotalWeight() float64 {
	if s.Weight > 0 {
		return s.Weight
	}
	var sum float64
	for _, b := range s.Boxes {
		sum += b.Weight
	}
	return sum
}

// Pieces is the declared box count, or the number of listed boxes when unset.
func (s *Shipment) Pieces() int {
	if s.BoxCount > 0 {
		return s.BoxCount
	}
	return len(s.Boxes)
}

// MeasuredBoxes returns the boxes to measure. A shipment with no box list but
// shipment-level dimensions is treated as a single box.
func (s *Shipment) MeasuredBoxes() []Box {
	if len(s.Boxes) > 0 {
		return s.Boxes
	}
	if s.Length == 0 && s.Width == 0 && s.Height == 0 {
		return nil
	}
	return []Box{{Weight: s.Weight, Length: s.Length, Width: s.Width, Height: s.Height}}
}
