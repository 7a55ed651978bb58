package immune

import "math/rand"

// CropProfile bounds the uniform ranges of healthy readings for one crop.
type CropProfile struct {
	Crop        string
	Humidity    [2]float64
	Temperature [2]float64
	Nutrients   [2]float64
	Growth      [2]float64
}

func DefaultCropProfiles() []CropProfile {
	return []CropProfile{
		{Crop: "maize", Humidity: [2]float64{55, 65}, Temperature: [2]float64{20, 28}, Nutrients: [2]float64{6, 8}, Growth: [2]float64{75, 90}},
		{Crop: "soy", Humidity: [2]float64{50, 60}, Temperature: [2]float64{18, 25}, Nutrients: [2]float64{5, 7}, Growth: [2]float64{70, 85}},
		{Crop: "wheat", Humidity: [2]float64{45, 55}, Temperature: [2]float64{15, 22}, Nutrients: [2]float64{7, 9}, Growth: [2]float64{80, 95}},
	}
}

type LabelledReading struct {
	Reading
	Crop        string `json:"crop"`
	Description string `json:"description,omitempty"`
}

// SimulateCropReadings draws perCrop healthy readings for every profile.
func SimulateCropReadings(rng *rand.Rand, profiles []CropProfile, perCrop int) []LabelledReading {
	out := make([]LabelledReading, 0, len(profiles)*perCrop)
	for _, p := range profiles {
		for i := 0; i < perCrop; i++ {
			out = append(out, LabelledReading{
				Crop: p.Crop,
				Reading: Reading{
					Humidity:    uniform(rng, p.Humidity),
					Temperature: uniform(rng, p.Temperature),
					Nutrients:   uniform(rng, p.Nutrients),
					Growth:      uniform(rng, p.Growth),
				},
			})
		}
	}
	return out
}

// CatalogedAnomalies are field incidents used to exercise a trained system.
func CatalogedAnomalies() []LabelledReading {
	return []LabelledReading{
		{Crop: "maize", Description: "severe water stress", Reading: Reading{Humidity: 25, Temperature: 35, Nutrients: 4, Growth: 30}},
		{Crop: "soy", Description: "late frost", Reading: Reading{Humidity: 60, Temperature: 2, Nutrients: 7, Growth: 15}},
		{Crop: "wheat", Description: "NPK deficiency", Reading: Reading{Humidity: 55, Temperature: 24, Nutrients: 1, Growth: 25}},
		{Crop: "maize", Description: "lepidoptera pest", Reading: Reading{Humidity: 50, Temperature: 26, Nutrients: 6, Growth: 10}},
		{Crop: "soy", Description: "waterlogging", Reading: Reading{Humidity: 90, Temperature: 28, Nutrients: 5, Growth: 40}},
		{Crop: "wheat", Description: "high thermal stress", Reading: Reading{Humidity: 40, Temperature: 42, Nutrients: 6, Growth: 35}},
	}
}

func Readings(labelled []LabelledReading) []Reading {
	out := make([]Reading, len(labelled))
	for i, l := range labelled {
		out[i] = l.Reading
	}
	return out
}

func uniform(rng *rand.Rand, bounds [2]float64) float64 {
	return bounds[0] + rng.Float64()*(bounds[1]-bounds[0])
}
