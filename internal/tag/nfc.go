package tag

// NFCResult is the outcome of validating an NFC tag read.
type NFCResult struct {
	Valid   bool   `json:"valid"`
	TagID   string `json:"tag_id,omitempty"`
	Message string `json:"message"`
}

// ValidateNFC validates NFC tag information. This is a stub - a real
// deployment would talk to NFC hardware or a reader API here.
func ValidateNFC(tagID, expectedID string) NFCResult {
	if tagID == "" {
		return NFCResult{Valid: false, Message: "NFC tag ID is empty"}
	}
	if expectedID != "" && tagID != expectedID {
		return NFCResult{Valid: false, Message: "Invalid NFC tag ID"}
	}
	return NFCResult{Valid: true, TagID: tagID, Message: "Valid NFC tag"}
}
