package plant

// FuelCellReading is the sensor view of the stack, taken between
// ticks.
type FuelCellReading struct {
	Voltage             float64
	Current             float64
	HydrogenFlow        float64
	Temperature         float64
	OxygenConcentration float64
}

// BatteryReading is the sensor view of the battery pack.
type BatteryReading struct {
	SoC         float64
	Voltage     float64
	Current     float64
	Temperature float64
}

// ReadFuelCell samples the stack state as plain values.
func ReadFuelCell(f *FuelCell) FuelCellReading {
	return FuelCellReading{
		Voltage:             f.Voltage,
		Current:             f.Current,
		HydrogenFlow:        f.HydrogenFlow,
		Temperature:         f.Temperature,
		OxygenConcentration: f.OxygenConcentration,
	}
}

// ReadBattery samples the battery state as plain values.
func ReadBattery(b *Battery) BatteryReading {
	return BatteryReading{
		SoC:         b.SoC,
		Voltage:     b.Voltage,
		Current:     b.Current,
		Temperature: b.Temperature,
	}
}
