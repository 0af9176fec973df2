// internal/domain/freight/estimator.go
package freight

// VolumetricDivisor is the standard air-cargo divisor for converting cubic
// centimeters to kilograms.
const VolumetricDivisor = 6000.0

// Dimensions holds the physical attributes of a parcel or cart line item.
type Dimensions struct {
	WeightKg float64 `json:"weight"`
	WidthCm  float64 `json:"width"`
	HeightCm float64 `json:"height"`
	LengthCm float64 `json:"length"`
}

// VolumetricWeight computes the volumetric weight in kilograms for the given
// package dimensions in centimeters.
func VolumetricWeight(lengthCm, widthCm, heightCm float64) float64 {
	return (lengthCm * widthCm * heightCm) / VolumetricDivisor
}

// ChargeableWeight returns the weight carriers bill against: the greater of
// the actual and volumetric weights.
func ChargeableWeight(actualKg, volumetricKg float64) float64 {
	if actualKg > volumetricKg {
		return actualKg
	}
	return volumetricKg
}

// AggregateDimensions sums each physical attribute independently across all
// items. Linear dimensions are summed rather than packed into a true box
// volume; carriers quote against the resulting per-attribute totals.
func AggregateDimensions(items []Dimensions) Dimensions {
	var total Dimensions
	for _, item := range items {
		total.WeightKg += item.WeightKg
		total.WidthCm += item.WidthCm
		total.HeightCm += item.HeightCm
		total.LengthCm += item.LengthCm
	}
	return total
}

// ShipmentWeight returns the chargeable weight for an aggregated shipment.
func ShipmentWeight(d Dimensions) float64 {
	return ChargeableWeight(d.WeightKg, VolumetricWeight(d.LengthCm, d.WidthCm, d.HeightCm))
}
