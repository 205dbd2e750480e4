package dataset

// RequiredColumns is the schema every equipment-readings upload must satisfy.
var RequiredColumns = []string{"Equipment Name", "Type", "Flowrate", "Pressure", "Temperature"}

// NumericColumns are the averaged columns of the summary.
var NumericColumns = []string{"Flowrate", "Pressure", "Temperature"}

// TypeColumn feeds the type-distribution histogram.
const TypeColumn = "Type"

// Missing returns the required columns absent from the dataset, in the order
// of the required list. An empty result means the schema check passed.
func Missing(d *Dataset, required []string) []string {
	var missing []string
	for _, name := range required {
		if !d.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
