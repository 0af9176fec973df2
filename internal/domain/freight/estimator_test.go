package freight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolumetricWeight(t *testing.T) {
	assert.InDelta(t, 1.8, VolumetricWeight(90, 60, 2), 0.001)
	assert.InDelta(t, 0.0, VolumetricWeight(0, 60, 2), 0.001)
}

func TestChargeableWeight(t *testing.T) {
	assert.InDelta(t, 2.5, ChargeableWeight(2.5, 1.8), 0.001)
	assert.InDelta(t, 1.8, ChargeableWeight(1.0, 1.8), 0.001)
	assert.InDelta(t, 2.0, ChargeableWeight(2.0, 2.0), 0.001)
}

func TestAggregateDimensions(t *testing.T) {
	items := []Dimensions{
		{WeightKg: 1.2, WidthCm: 60, HeightCm: 2, LengthCm: 90},
		{WeightKg: 0.8, WidthCm: 40, HeightCm: 3, LengthCm: 50},
	}

	total := AggregateDimensions(items)
	assert.InDelta(t, 2.0, total.WeightKg, 0.001)
	assert.InDelta(t, 100, total.WidthCm, 0.001)
	assert.InDelta(t, 5, total.HeightCm, 0.001)
	assert.InDelta(t, 140, total.LengthCm, 0.001)
}

func TestAggregateDimensionsEmpty(t *testing.T) {
	total := AggregateDimensions(nil)
	assert.Equal(t, Dimensions{}, total)
}

func TestShipmentWeight(t *testing.T) {
	// Volumetric (90*60*2/6000 = 1.8) beats a light actual weight
	d := Dimensions{WeightKg: 1.0, WidthCm: 60, HeightCm: 2, LengthCm: 90}
	assert.InDelta(t, 1.8, ShipmentWeight(d), 0.001)

	// Heavy actual weight wins
	d.WeightKg = 2.5
	assert.InDelta(t, 2.5, ShipmentWeight(d), 0.001)
}
