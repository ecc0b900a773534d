package types

// Intent labels form a closed set. Anything the model returns outside of it
// collapses to IntentUndefined.
const (
	IntentAccusation  = "Accusation"
	IntentBooking     = "Booking"
	IntentInfoRequest = "Information Request"
	IntentCommentary  = "General Commentary"
	IntentComplaint   = "Complaint"
	IntentCompliment  = "Compliment"
	IntentUndefined   = "Undefined"
)

const (
	SentimentPositive  = "positive"
	SentimentNegative  = "negative"
	SentimentNeutral   = "neutral"
	SentimentUndefined = "undefined"
)

// Document is one reference snippet attached to a record by similarity lookup.
type Document struct {
	Text   string  `json:"text"`
	Score  float32 `json:"relevance_score"`
	Source string  `json:"source"`
}

// ConversationRecord is the single output unit of the pipeline. It is built
// once per conversation, gets a fresh ID before any model call, and must not
// be mutated after it has been handed to the dispatcher.
type ConversationRecord struct {
	ID           string            `json:"id"`
	Conversation string            `json:"conversation"`
	Data         map[string]string `json:"data"`
	Intent       string            `json:"intent"`
	Sentiment    string            `json:"sentiment"`
	Summary      string            `json:"summary"`
	OutputScore  int               `json:"output_score"`
	RelatedDocs  []Document        `json:"related_documents,omitempty"`
}
