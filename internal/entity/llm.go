package entity

// CompletionRequest is a single system+user exchange sent to a completion provider.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}
