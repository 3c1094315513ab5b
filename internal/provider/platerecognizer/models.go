package platerecognizer

// plateReaderResponse is the payload returned by POST /plate-reader
type plateReaderResponse struct {
	ProcessingTime float64       `json:"processing_time"`
	Results        []plateResult `json:"results"`
}

type plateResult struct {
	Plate      string           `json:"plate"`
	Score      float64          `json:"score"`
	Candidates []plateCandidate `json:"candidates"`
	Vehicle    *vehicleInfo     `json:"vehicle,omitempty"`
}

type plateCandidate struct {
	Plate string  `json:"plate"`
	Score float64 `json:"score"`
}

type vehicleInfo struct {
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
