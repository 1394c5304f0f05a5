package domain

// ProofType classifies a piece of proof-of-work evidence.
type ProofType string

const (
	ProofPhoto    ProofType = "photo"
	ProofVideo    ProofType = "video"
	ProofDocument ProofType = "document"
)

// GPS is the capture location of a proof item.
type GPS struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Proof references externally stored media plus the metadata needed to trust
// it. URL is opaque; media contents are never fetched.
type Proof struct {
	Type         ProofType `json:"type"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailURL,omitempty"`
	GPS          *GPS      `json:"gps,omitempty"`
	Timestamp    string    `json:"timestamp"` // as captured on the device
}

// ProofValidation lists every problem found in a submission.
type ProofValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
