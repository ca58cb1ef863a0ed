package domain

// ReadinessReport summarizes whether the local dataset is complete enough to use
type ReadinessReport struct {
	FileCount          int
	ExpectedCount      int
	ReadyThreshold     int
	GroundTruthPresent bool
	MetadataPresent    bool
	Ready              bool

	ImageDir        string
	GroundTruthPath string
	MetadataPath    string
}

// Missing returns the names of the checks that keep the dataset from being ready
func (r *ReadinessReport) Missing() []string {
	var missing []string
	if r.FileCount < r.ReadyThreshold {
		missing = append(missing, "images")
	}
	if !r.GroundTruthPresent {
		missing = append(missing, ResourceGroundTruth)
	}
	if !r.MetadataPresent {
		missing = append(missing, ResourceMetadata)
	}
	return missing
}
